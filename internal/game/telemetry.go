package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
)

// RunStats broadcasts server-stats to every connection each interval until ctx
// is done. One loop serves the whole server.
func (d *Directory) RunStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("[RunStats] stopped")
			return
		case <-ticker.C:
			d.BroadcastStats()
		}
	}
}

func (d *Directory) BroadcastStats() {
	msg := internal.Message[any]{Type: internal.ServerStatsUpdate, Data: d.Stats()}

	d.mu.RLock()
	conns := make([]Conn, 0, len(d.conns))
	for _, c := range d.conns {
		conns = append(conns, c)
	}
	d.mu.RUnlock()

	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			log.Debug().Err(err).Str("conn", c.ID()).Msg("[BroadcastStats] dropped")
		}
	}
}
