package game

import (
	"github.com/scythe504/sketchparty/internal"
)

// =============================================================================
// DRAWING
// =============================================================================

// lockDrawer locks the room and checks that connID is drawing this round.
func (d *Directory) lockDrawer(roomID, connID string) (*internal.Room, error) {
	room, _, err := d.lockMember(roomID, connID)
	if err != nil {
		return nil, err
	}
	if !room.IsDrawingPhase() || !room.IsDrawer(connID) {
		room.Mu.Unlock()
		return nil, internal.ErrNotDrawer
	}
	return room, nil
}

// HandleDrawing stores a drawing event for replay and relays it to everyone
// but the drawer.
func (d *Directory) HandleDrawing(roomID, connID string, ev internal.CanvasEvent) error {
	if err := internal.ValidateCanvasEvent(ev); err != nil {
		return err
	}

	room, err := d.lockDrawer(roomID, connID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	room.DrawingData = append(room.DrawingData, ev)
	d.broadcast(room, internal.Message[any]{
		Type: internal.DrawingEvent,
		Data: internal.DrawingRelayData{PlayerID: connID, Event: ev},
	}, connID)
	return nil
}

// HandleClearCanvas drops the round's drawing log.
func (d *Directory) HandleClearCanvas(roomID, connID string) error {
	room, err := d.lockDrawer(roomID, connID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	room.DrawingData = nil
	d.broadcast(room, internal.Message[any]{
		Type: internal.CanvasCleared,
		Data: internal.CanvasClearedData{PlayerID: connID},
	}, connID)
	return nil
}
