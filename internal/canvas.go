package internal

import (
	"encoding/json"
	"fmt"
)

// MaxCanvasEventSize bounds a single relayed drawing event.
const MaxCanvasEventSize = 16 << 10

// CanvasEvent is one opaque drawing record produced by the drawer's client.
// The server never interprets it; it only validates, stores and relays it.
type CanvasEvent = json.RawMessage

func ValidateCanvasEvent(ev json.RawMessage) error {
	if len(ev) == 0 {
		return fmt.Errorf("%w: empty drawing event", ErrMalformed)
	}
	if len(ev) > MaxCanvasEventSize {
		return fmt.Errorf("%w: drawing event is %d bytes, limit %d", ErrMalformed, len(ev), MaxCanvasEventSize)
	}
	if !json.Valid(ev) {
		return fmt.Errorf("%w: drawing event is not valid JSON", ErrMalformed)
	}
	return nil
}
