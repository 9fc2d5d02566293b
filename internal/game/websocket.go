package game

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
)

// =============================================================================
// SESSION EVENT ROUTER
// =============================================================================

// Router decodes inbound intents from one connection and applies them to the
// Directory. Failures become a private error reply to the sender.
type Router struct {
	dir *Directory
}

func NewRouter(dir *Directory) *Router {
	return &Router{dir: dir}
}

func (rt *Router) Directory() *Directory {
	return rt.dir
}

func (rt *Router) Connect(conn Conn) {
	rt.dir.Connect(conn)
	log.Debug().Str("conn", conn.ID()).Msg("[Router] connection registered")
}

// Disconnect is the transport's close hook; it behaves like leave-room.
func (rt *Router) Disconnect(connID string) {
	rt.dir.Disconnect(connID)
	log.Debug().Str("conn", connID).Msg("[Router] connection released")
}

// HandleMessage processes one raw frame from conn.
func (rt *Router) HandleMessage(conn Conn, raw []byte) {
	var msg internal.Message[json.RawMessage]
	if err := json.Unmarshal(raw, &msg); err != nil {
		rt.ReplyError(conn, &internal.GameError{Code: internal.CodeMalformed, Err: fmt.Errorf("%w: %v", internal.ErrMalformed, err)})
		return
	}

	log.Debug().Str("conn", conn.ID()).Str("type", msg.Type).Msg("[HandleMessage] received")

	if err := rt.dispatch(conn, msg); err != nil {
		log.Debug().Err(err).Str("conn", conn.ID()).Str("type", msg.Type).Msg("[HandleMessage] intent rejected")
		rt.ReplyError(conn, err)
	}
}

func (rt *Router) dispatch(conn Conn, msg internal.Message[json.RawMessage]) error {
	connID := conn.ID()

	switch msg.Type {
	case internal.CreateRoom:
		data, err := decode[internal.CreateRoomData](msg.Data)
		if err != nil {
			return err
		}
		player := internal.NewPlayer(connID, data.Player.Name, data.Player.Avatar)
		rt.dir.CreateRoom(data.Settings, player)
		return nil

	case internal.JoinRoom:
		data, err := decode[internal.JoinRoomData](msg.Data)
		if err != nil {
			return err
		}
		player := internal.NewPlayer(connID, data.Player.Name, data.Player.Avatar)
		return rt.dir.JoinRoom(data.RoomId, data.Password, player)

	case internal.LeaveRoom:
		data, err := decode[internal.RoomRefData](msg.Data)
		if err != nil {
			return err
		}
		return rt.dir.LeaveRoom(data.RoomId, connID)

	case internal.UpdateRoom:
		data, err := decode[internal.UpdateRoomData](msg.Data)
		if err != nil {
			return err
		}
		return rt.dir.UpdateRoom(data.RoomId, connID, data.Settings)

	case internal.RestartGame:
		data, err := decode[internal.RestartGameData](msg.Data)
		if err != nil {
			return err
		}
		return rt.dir.RestartGame(data.RoomId, connID, data.Settings)

	case internal.StartGame:
		data, err := decode[internal.RoomRefData](msg.Data)
		if err != nil {
			return err
		}
		return rt.dir.StartGame(data.RoomId, connID)

	case internal.ChatMessage:
		data, err := decode[internal.ChatMessageData](msg.Data)
		if err != nil {
			return err
		}
		return rt.dir.HandleChat(data.RoomId, connID, data.Message)

	case internal.DrawingEvent:
		data, err := decode[internal.DrawingEventData](msg.Data)
		if err != nil {
			return err
		}
		return rt.dir.HandleDrawing(data.RoomId, connID, data.Event)

	case internal.ClearCanvas:
		data, err := decode[internal.RoomRefData](msg.Data)
		if err != nil {
			return err
		}
		return rt.dir.HandleClearCanvas(data.RoomId, connID)

	case internal.KickPlayer:
		data, err := decode[internal.KickPlayerData](msg.Data)
		if err != nil {
			return err
		}
		return rt.dir.KickPlayer(data.RoomId, connID, data.PlayerId)

	case internal.GetPublicRooms:
		rt.dir.sendTo(connID, internal.Message[any]{
			Type: internal.PublicRooms,
			Data: internal.PublicRoomsData{Rooms: rt.dir.PublicRooms()},
		})
		return nil
	}

	return fmt.Errorf("%w: %q", internal.ErrUnknownType, msg.Type)
}

// ReplyError sends the error reply to conn only.
func (rt *Router) ReplyError(conn Conn, err error) {
	msg := internal.Message[any]{Type: internal.ErrorEvent, Data: internal.ToErrorData(err)}
	if sendErr := conn.Send(msg); sendErr != nil {
		log.Warn().Err(sendErr).Str("conn", conn.ID()).Msg("[ReplyError] could not deliver error reply")
	}
}

func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, fmt.Errorf("%w: missing data", internal.ErrMalformed)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %v", internal.ErrMalformed, err)
	}
	return v, nil
}
