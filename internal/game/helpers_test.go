package game

import (
	"encoding/json"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/scythe504/sketchparty/internal"
	"github.com/scythe504/sketchparty/internal/utils"
	"github.com/stretchr/testify/require"
)

// fakeConn records every message sent to it.
type fakeConn struct {
	id string

	mu   sync.Mutex
	msgs []internal.Message[any]
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(msg internal.Message[any]) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeConn) messages() []internal.Message[any] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]internal.Message[any](nil), c.msgs...)
}

func (c *fakeConn) types() []string {
	var out []string
	for _, m := range c.messages() {
		out = append(out, m.Type)
	}
	return out
}

func (c *fakeConn) count(msgType string) int {
	n := 0
	for _, m := range c.messages() {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

// last returns the most recent message of the given type.
func (c *fakeConn) last(t *testing.T, msgType string) internal.Message[any] {
	t.Helper()
	msgs := c.messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return msgs[i]
		}
	}
	require.Failf(t, "message not found", "%s never received %q; got %v", c.id, msgType, c.types())
	return internal.Message[any]{}
}

func (c *fakeConn) lastError(t *testing.T) internal.ErrorData {
	t.Helper()
	return c.last(t, internal.ErrorEvent).Data.(internal.ErrorData)
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}

type harness struct {
	t      *testing.T
	dir    *Directory
	router *Router
	conns  map[string]*fakeConn
}

// fast timings: ticks every 5ms, reveal after 20ms
func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()
	opts := Options{
		TickInterval: 5 * time.Millisecond,
		RevealDelay:  20 * time.Millisecond,
		Words:        utils.NewWordBank(rand.New(rand.NewPCG(7, 11))),
	}
	for _, m := range mutate {
		m(&opts)
	}
	dir := NewDirectory(opts)
	t.Cleanup(dir.Close)

	return &harness{t: t, dir: dir, router: NewRouter(dir), conns: map[string]*fakeConn{}}
}

// slowTimer keeps the countdown from moving during a test.
func slowTimer(o *Options) {
	o.TickInterval = time.Hour
}

func (h *harness) conn(id string) *fakeConn {
	if c, ok := h.conns[id]; ok {
		return c
	}
	c := newFakeConn(id)
	h.conns[id] = c
	h.router.Connect(c)
	return c
}

func (h *harness) send(id, msgType string, data any) {
	h.t.Helper()
	raw, err := json.Marshal(map[string]any{"type": msgType, "data": data})
	require.NoError(h.t, err)
	h.router.HandleMessage(h.conn(id), raw)
}

// createRoom opens a room hosted by host and seats the other players in order.
func (h *harness) createRoom(settings internal.RoomSettings, host string, others ...string) *internal.Room {
	h.t.Helper()
	h.send(host, internal.CreateRoom, internal.CreateRoomData{
		Settings: settings,
		Player:   internal.PlayerInfo{Name: host},
	})
	created := h.conn(host).last(h.t, internal.RoomCreated).Data.(internal.RoomCreatedData)
	room := h.dir.GetRoom(created.RoomId)
	require.NotNil(h.t, room)

	for _, id := range others {
		h.send(id, internal.JoinRoom, internal.JoinRoomData{
			RoomId:   room.Id,
			Password: settings.Password,
			Player:   internal.PlayerInfo{Name: id},
		})
		require.True(h.t, h.dir.SeatOf(id) == room.Id, "%s failed to join: %v", id, h.conn(id).types())
	}
	return room
}

func (h *harness) startGame(room *internal.Room, host string) {
	h.t.Helper()
	h.send(host, internal.StartGame, internal.RoomRefData{RoomId: room.Id})
	h.conn(host).last(h.t, internal.RoundStarted)
}

// inspect runs fn under the room lock.
func inspect[T any](room *internal.Room, fn func(r *internal.Room) T) T {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	return fn(room)
}

func currentWord(room *internal.Room) string {
	return inspect(room, func(r *internal.Room) string { return r.Word })
}

func drawerID(room *internal.Room) string {
	return inspect(room, func(r *internal.Room) string {
		if r.Current == nil {
			return ""
		}
		return r.Current.Id
	})
}

func playerIDs(room *internal.Room) []string {
	return inspect(room, func(r *internal.Room) []string {
		ids := make([]string, 0, len(r.Players))
		for _, p := range r.Players {
			ids = append(ids, p.Id)
		}
		return ids
	})
}

// requireInvariants checks the room-level invariants that must hold after
// every handled intent.
func requireInvariants(t *testing.T, room *internal.Room) {
	t.Helper()
	room.Mu.Lock()
	defer room.Mu.Unlock()

	require.Len(t, room.Scores, len(room.Players), "players and score table diverged")
	hosts, drawers := 0, 0
	for _, p := range room.Players {
		score, ok := room.Scores[p.Id]
		require.True(t, ok, "no score entry for %s", p.Id)
		require.Equal(t, score, p.Score, "score mirror diverged for %s", p.Id)
		if p.IsHost {
			hosts++
		}
		if p.IsDrawing {
			drawers++
		}
	}
	if len(room.Players) > 0 {
		require.Equal(t, 1, hosts, "exactly one host expected")
	} else {
		require.Equal(t, 0, hosts)
	}
	require.LessOrEqual(t, drawers, 1)
	if room.IsDrawingPhase() {
		require.Equal(t, 1, drawers, "a drawing round has exactly one drawer")
	}
}
