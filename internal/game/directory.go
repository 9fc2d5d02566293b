package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
	"github.com/scythe504/sketchparty/internal/utils"
)

// Conn is the outbound side of one client connection. Send must not block.
type Conn interface {
	ID() string
	Send(msg internal.Message[any]) error
}

type Options struct {
	TickInterval time.Duration
	RevealDelay  time.Duration
	HideWord     bool
	Words        *utils.WordBank

	// OnGameFinished runs on its own goroutine after every finished game.
	OnGameFinished func(internal.FinalResults)
}

// Directory owns every live room together with the reverse index from
// connection to room, the round timer index and the connection registry.
//
// Lock order: a room's Mu is always taken before d.mu, never after.
type Directory struct {
	mu     sync.RWMutex
	rooms  map[string]*internal.Room
	seats  map[string]string
	timers map[string]*roundTimer
	delays map[string]*time.Timer
	conns  map[string]Conn

	opts    Options
	newCode func() (string, error)
}

func NewDirectory(opts Options) *Directory {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.RevealDelay < 0 {
		opts.RevealDelay = 0
	}
	if opts.Words == nil {
		opts.Words = utils.NewWordBank(nil)
	}
	return &Directory{
		rooms:   make(map[string]*internal.Room),
		seats:   make(map[string]string),
		timers:  make(map[string]*roundTimer),
		delays:  make(map[string]*time.Timer),
		conns:   make(map[string]Conn),
		opts:    opts,
		newCode: utils.GenerateRoomCode,
	}
}

// =============================================================================
// CONNECTION REGISTRY
// =============================================================================

func (d *Directory) Connect(conn Conn) {
	d.mu.Lock()
	d.conns[conn.ID()] = conn
	d.mu.Unlock()
}

// Disconnect releases everything held by the connection. Safe to call for
// connections that never joined a room.
func (d *Directory) Disconnect(connID string) {
	if p := d.RemovePlayer(connID); p != nil {
		log.Info().Str("conn", connID).Str("player", p.Username).Msg("[Disconnect] player removed")
	}
	d.mu.Lock()
	delete(d.conns, connID)
	d.mu.Unlock()
}

// =============================================================================
// ROOM DIRECTORY
// =============================================================================

// CreateRoom mints a fresh code, inserts a room with host as its sole member
// and replies to the host with room-created. Code collisions are retried.
func (d *Directory) CreateRoom(settings internal.RoomSettings, host *internal.Player) *internal.Room {
	// A connection is seated in at most one room.
	d.RemovePlayer(host.Id)

	for {
		code, err := d.newCode()
		if err != nil {
			log.Error().Err(err).Msg("[CreateRoom] failed to generate room code, retrying")
			continue
		}

		room := internal.NewRoom(code, settings, host)
		room.Mu.Lock()

		d.mu.Lock()
		if _, taken := d.rooms[code]; taken {
			d.mu.Unlock()
			room.Mu.Unlock()
			log.Debug().Str("room", code).Msg("[CreateRoom] code collision, retrying")
			continue
		}
		d.rooms[code] = room
		d.seats[host.Id] = code
		d.mu.Unlock()

		d.sendTo(host.Id, internal.Message[any]{
			Type: internal.RoomCreated,
			Data: internal.RoomCreatedData{RoomId: code, PlayerId: host.Id, Room: d.snapshotFor(room, host.Id)},
		})
		room.Mu.Unlock()

		log.Info().Str("room", code).Str("host", host.Username).Msg("[CreateRoom] room created")
		return room
	}
}

func (d *Directory) GetRoom(roomID string) *internal.Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rooms[roomID]
}

// SeatOf returns the id of the room the connection is seated in, or "".
func (d *Directory) SeatOf(connID string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.seats[connID]
}

// lockSeat locks and returns the room the connection is seated in. The seat is
// re-checked after the lock is taken since it may move in between.
func (d *Directory) lockSeat(connID string) *internal.Room {
	for {
		d.mu.RLock()
		roomID := d.seats[connID]
		room := d.rooms[roomID]
		d.mu.RUnlock()
		if room == nil {
			return nil
		}

		room.Mu.Lock()
		if !room.Closed && d.SeatOf(connID) == roomID {
			return room
		}
		room.Mu.Unlock()
	}
}

// RemovePlayer unseats the connection from whatever room it is in. Returns
// the removed player, or nil when the connection was not seated.
func (d *Directory) RemovePlayer(connID string) *internal.Player {
	room := d.lockSeat(connID)
	if room == nil {
		return nil
	}
	defer room.Mu.Unlock()
	return d.removeLocked(room, connID, false)
}

// removeLocked deletes the player from the room, its score and its seat in one
// step, then handles the fallout: teardown when empty, host transfer, and
// ending the round when the drawer or the last guesser left. Caller holds
// room.Mu.
func (d *Directory) removeLocked(room *internal.Room, connID string, kicked bool) *internal.Player {
	wasDrawer := room.IsDrawer(connID)
	wasHost := room.IsHost(connID)
	player := room.RemovePlayer(connID)
	if player == nil {
		return nil
	}

	d.mu.Lock()
	if d.seats[connID] == room.Id {
		delete(d.seats, connID)
	}
	d.mu.Unlock()

	if room.IsEmpty() {
		d.teardownLocked(room)
		return player
	}

	data := internal.PlayerLeftData{
		PlayerID:    player.Id,
		Username:    player.Username,
		PlayerCount: len(room.Players),
		Kicked:      kicked,
	}
	if host := room.Host(); wasHost && host != nil {
		data.NewHostID = host.Id
	}
	d.broadcastFunc(room, func(to *internal.Player) internal.Message[any] {
		data.Room = d.snapshotFor(room, to.Id)
		return internal.Message[any]{Type: internal.PlayerLeft, Data: data}
	}, "")

	log.Info().Str("room", room.Id).Str("player", player.Username).Bool("kicked", kicked).
		Int("remaining", len(room.Players)).Msg("[removePlayer] player left")

	if room.IsDrawingPhase() {
		switch {
		case wasDrawer:
			d.endRound(room, internal.ReasonDrawerLeft)
		case room.HasEveryoneGuessed():
			d.endRound(room, internal.ReasonNoGuessers)
		}
	}
	return player
}

// teardownLocked deletes an empty room together with its timer and any pending
// reveal continuation. Caller holds room.Mu.
func (d *Directory) teardownLocked(room *internal.Room) {
	room.Closed = true
	room.Epoch++

	d.mu.Lock()
	delete(d.rooms, room.Id)
	h := d.timers[room.Id]
	delete(d.timers, room.Id)
	delay := d.delays[room.Id]
	delete(d.delays, room.Id)
	d.mu.Unlock()

	if h != nil {
		h.cancel()
	}
	if delay != nil {
		delay.Stop()
	}
	log.Info().Str("room", room.Id).Msg("[teardownLocked] room deleted")
}

// Close cancels every timer and delayed continuation. Used on shutdown.
func (d *Directory) Close() {
	d.mu.RLock()
	rooms := make([]*internal.Room, 0, len(d.rooms))
	for _, room := range d.rooms {
		rooms = append(rooms, room)
	}
	d.mu.RUnlock()

	for _, room := range rooms {
		room.Mu.Lock()
		if !room.Closed {
			d.teardownLocked(room)
		}
		room.Mu.Unlock()
	}
}

// =============================================================================
// BROADCAST
// =============================================================================

// sendTo delivers msg to a single connection. Caller may hold a room lock.
func (d *Directory) sendTo(connID string, msg internal.Message[any]) {
	d.mu.RLock()
	conn := d.conns[connID]
	d.mu.RUnlock()
	if conn == nil {
		return
	}
	if err := conn.Send(msg); err != nil {
		log.Warn().Err(err).Str("conn", connID).Str("type", msg.Type).Msg("[sendTo] dropped message")
	}
}

// broadcast sends msg to every member of room except the given connection.
// Caller holds room.Mu so per-room order is the order of emission.
func (d *Directory) broadcast(room *internal.Room, msg internal.Message[any], except string) {
	d.broadcastFunc(room, func(*internal.Player) internal.Message[any] { return msg }, except)
}

// broadcastFunc is broadcast with a per-recipient message.
func (d *Directory) broadcastFunc(room *internal.Room, build func(to *internal.Player) internal.Message[any], except string) {
	for _, p := range room.Players {
		if p.Id == except {
			continue
		}
		d.sendTo(p.Id, build(p))
	}
}

// snapshotFor projects the room for one recipient, masking the word for
// everyone but the drawer when the server hides words.
func (d *Directory) snapshotFor(room *internal.Room, connID string) internal.RoomSnapshot {
	if d.opts.HideWord && !room.IsDrawer(connID) {
		return room.Snapshot(utils.GetMaskedWord)
	}
	return room.Snapshot(nil)
}

func (d *Directory) wordFor(room *internal.Room, connID string) string {
	if d.opts.HideWord && !room.IsDrawer(connID) {
		return utils.GetMaskedWord(room.Word)
	}
	return room.Word
}
