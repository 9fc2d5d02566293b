package game

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/scythe504/sketchparty/internal"
)

// =============================================================================
// ROOM MANAGEMENT
// =============================================================================

// lockRoom looks up and locks a live room. The caller must unlock it.
func (d *Directory) lockRoom(roomID string) (*internal.Room, error) {
	room := d.GetRoom(roomID)
	if room == nil {
		return nil, internal.ErrRoomNotFound
	}
	room.Mu.Lock()
	if room.Closed {
		room.Mu.Unlock()
		return nil, internal.ErrRoomNotFound
	}
	return room, nil
}

// lockMember locks the room and checks that connID is one of its players.
func (d *Directory) lockMember(roomID, connID string) (*internal.Room, *internal.Player, error) {
	room, err := d.lockRoom(roomID)
	if err != nil {
		return nil, nil, err
	}
	p, _ := room.FindPlayer(connID)
	if p == nil {
		room.Mu.Unlock()
		return nil, nil, internal.ErrNotSeated
	}
	return room, p, nil
}

// lockHost is lockMember restricted to the room's host.
func (d *Directory) lockHost(roomID, connID string) (*internal.Room, *internal.Player, error) {
	room, p, err := d.lockMember(roomID, connID)
	if err != nil {
		return nil, nil, err
	}
	if !p.IsHost {
		room.Mu.Unlock()
		return nil, nil, internal.ErrNotHost
	}
	return room, p, nil
}

func checkJoin(room *internal.Room, password string) error {
	if room.IsFull() {
		return internal.ErrRoomFull
	}
	if room.Settings.IsPrivate && room.Settings.Password != "" && password != room.Settings.Password {
		return internal.ErrWrongPassword
	}
	return nil
}

// JoinRoom seats player in the room. Joining a room the connection already
// sits in just repeats the confirmation; a seat in another room is given up
// first.
func (d *Directory) JoinRoom(roomID, password string, player *internal.Player) error {
	connID := player.Id

	if cur := d.SeatOf(connID); cur != "" && cur != roomID {
		room, err := d.lockRoom(roomID)
		if err != nil {
			return err
		}
		err = checkJoin(room, password)
		room.Mu.Unlock()
		if err != nil {
			return err
		}
		d.RemovePlayer(connID)
	}

	room, err := d.lockRoom(roomID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	if room.HasPlayer(connID) {
		d.sendTo(connID, internal.Message[any]{
			Type: internal.RoomJoined,
			Data: internal.RoomJoinedData{RoomId: room.Id, PlayerId: connID, Room: d.snapshotFor(room, connID)},
		})
		return nil
	}
	if err := checkJoin(room, password); err != nil {
		return err
	}

	room.AddPlayer(player)
	d.mu.Lock()
	d.seats[connID] = room.Id
	d.mu.Unlock()

	d.sendTo(connID, internal.Message[any]{
		Type: internal.RoomJoined,
		Data: internal.RoomJoinedData{RoomId: room.Id, PlayerId: connID, Room: d.snapshotFor(room, connID)},
	})
	d.broadcastFunc(room, func(to *internal.Player) internal.Message[any] {
		return internal.Message[any]{
			Type: internal.PlayerJoined,
			Data: internal.PlayerJoinedData{
				Player:      internal.CreatePlayerSnapshot(player),
				PlayerCount: len(room.Players),
				CanStart:    room.CanStartGame(),
				Room:        d.snapshotFor(room, to.Id),
			},
		}
	}, connID)

	// Late joiners get the current canvas.
	if room.IsDrawingPhase() {
		for _, ev := range room.DrawingData {
			d.sendTo(connID, internal.Message[any]{
				Type: internal.DrawingEvent,
				Data: internal.DrawingRelayData{PlayerID: room.Current.Id, Event: ev},
			})
		}
	}

	log.Info().Str("room", room.Id).Str("player", player.Username).Int("players", len(room.Players)).
		Msg("[JoinRoom] player joined")
	return nil
}

// LeaveRoom removes the connection from the named room.
func (d *Directory) LeaveRoom(roomID, connID string) error {
	room, _, err := d.lockMember(roomID, connID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	d.removeLocked(room, connID, false)
	return nil
}

// KickPlayer removes target from the room on the host's behalf. The target
// alone is told it was kicked; the rest see an ordinary player-left.
func (d *Directory) KickPlayer(roomID, hostID, targetID string) error {
	room, _, err := d.lockHost(roomID, hostID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	if targetID == hostID {
		return internal.ErrCannotKickSelf
	}
	if !room.HasPlayer(targetID) {
		return internal.ErrPlayerNotFound
	}

	d.sendTo(targetID, internal.Message[any]{
		Type: internal.Kicked,
		Data: internal.KickedData{RoomId: room.Id, Reason: "removed by host"},
	})
	d.removeLocked(room, targetID, true)
	return nil
}

// UpdateRoom applies a partial settings change from the host.
func (d *Directory) UpdateRoom(roomID, connID string, update internal.SettingsUpdate) error {
	room, _, err := d.lockHost(roomID, connID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	room.ApplySettings(update)
	d.broadcastRoomState(room, internal.RoomUpdated)

	log.Info().Str("room", room.Id).Msg("[UpdateRoom] settings updated")
	return nil
}

func (d *Directory) broadcastRoomState(room *internal.Room, eventType string) {
	d.broadcastFunc(room, func(to *internal.Player) internal.Message[any] {
		return internal.Message[any]{
			Type: eventType,
			Data: internal.RoomStateData{Room: d.snapshotFor(room, to.Id)},
		}
	}, "")
}

// =============================================================================
// LISTING
// =============================================================================

func (d *Directory) liveRooms() []*internal.Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return lo.Values(d.rooms)
}

// PublicRooms projects every non-private room, ordered by room id.
func (d *Directory) PublicRooms() []internal.RoomSummary {
	summaries := lo.FilterMap(d.liveRooms(), func(room *internal.Room, _ int) (internal.RoomSummary, bool) {
		room.Mu.Lock()
		defer room.Mu.Unlock()
		if room.Closed || room.Settings.IsPrivate {
			return internal.RoomSummary{}, false
		}
		return room.Summary(), true
	})
	slices.SortFunc(summaries, func(a, b internal.RoomSummary) int {
		return cmp.Compare(a.Id, b.Id)
	})
	return summaries
}

// Stats counts rooms, seated players and games in progress.
func (d *Directory) Stats() internal.ServerStats {
	var stats internal.ServerStats
	for _, room := range d.liveRooms() {
		room.Mu.Lock()
		if !room.Closed {
			stats.Rooms++
			stats.Players += len(room.Players)
			if room.State == internal.StatePlaying {
				stats.ActiveGames++
			}
		}
		room.Mu.Unlock()
	}
	return stats
}
