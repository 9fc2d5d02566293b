package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
)

// =============================================================================
// TIMER MANAGEMENT
// =============================================================================

// roundTimer is the live countdown handle of one room.
type roundTimer struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// startRoundTimer arms a countdown for the room's current round, replacing any
// previous handle. Caller holds room.Mu.
func (d *Directory) startRoundTimer(room *internal.Room) {
	d.cancelRoundTimer(room.Id)

	ctx, cancel := context.WithCancel(context.Background())
	h := &roundTimer{ctx: ctx, cancel: cancel}

	d.mu.Lock()
	d.timers[room.Id] = h
	d.mu.Unlock()

	log.Debug().Str("room", room.Id).Int("timeLeft", room.TimeLeft).Dur("tick", d.opts.TickInterval).
		Msg("[startRoundTimer] timer armed")

	go func() {
		ticker := time.NewTicker(d.opts.TickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if done := d.tick(room, h); done {
					return
				}
			}
		}
	}()
}

// tick runs one countdown step under the room lock. It reports true once the
// handle is stale or the round has ended.
func (d *Directory) tick(room *internal.Room, h *roundTimer) bool {
	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Closed || h.ctx.Err() != nil || !d.isCurrentTimer(room.Id, h) {
		return true
	}

	room.TimeLeft = max(room.TimeLeft-1, 0)
	d.broadcast(room, internal.Message[any]{
		Type: internal.TimerUpdate,
		Data: internal.TimerUpdateData{TimeLeft: room.TimeLeft, Phase: room.Phase},
	}, "")

	if room.TimeLeft > 0 {
		return false
	}

	log.Debug().Str("room", room.Id).Int("round", room.CurrentRound).Msg("[tick] time is up")
	d.cancelRoundTimer(room.Id)
	d.endRound(room, internal.ReasonTimeout)
	return true
}

func (d *Directory) isCurrentTimer(roomID string, h *roundTimer) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.timers[roomID] == h
}

// HasTimer reports whether the room has a live round timer.
func (d *Directory) HasTimer(roomID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.timers[roomID]
	return ok
}

// cancelRoundTimer stops and removes the room's timer handle, if any.
func (d *Directory) cancelRoundTimer(roomID string) {
	d.mu.Lock()
	h := d.timers[roomID]
	delete(d.timers, roomID)
	d.mu.Unlock()

	if h != nil {
		h.cancel()
		log.Debug().Str("room", roomID).Msg("[cancelRoundTimer] timer cancelled")
	}
}

// =============================================================================
// REVEAL DELAY
// =============================================================================

// scheduleNextRound starts the next round after the reveal delay. The
// continuation is dropped if the room was torn down, restarted or otherwise
// moved past the epoch it was scheduled in. Caller holds room.Mu.
func (d *Directory) scheduleNextRound(room *internal.Room) {
	epoch := room.Epoch
	roomID := room.Id

	var t *time.Timer
	t = time.AfterFunc(d.opts.RevealDelay, func() {
		room.Mu.Lock()
		defer room.Mu.Unlock()

		d.mu.Lock()
		if d.delays[roomID] == t {
			delete(d.delays, roomID)
		}
		d.mu.Unlock()

		if room.Closed || room.Epoch != epoch || room.State != internal.StatePlaying {
			log.Debug().Str("room", roomID).Msg("[scheduleNextRound] stale continuation dropped")
			return
		}
		d.startRound(room)
	})

	d.mu.Lock()
	prev := d.delays[roomID]
	d.delays[roomID] = t
	d.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}
}

// cancelNextRound stops a pending reveal continuation. Caller holds room.Mu.
func (d *Directory) cancelNextRound(roomID string) {
	d.mu.Lock()
	t := d.delays[roomID]
	delete(d.delays, roomID)
	d.mu.Unlock()

	if t != nil {
		t.Stop()
	}
}
