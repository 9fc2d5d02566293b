package websockets

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
	"github.com/scythe504/sketchparty/internal/game"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	outboxSize     = 256
)

var (
	ErrClientClosed = errors.New("client connection closed")
	ErrSlowClient   = errors.New("client outbox full")
)

var _ game.Conn = (*Client)(nil)

// Limits bounds how many frames a single connection may send. A zero RPS
// disables the limiter.
type Limits struct {
	RPS   float64
	Burst int
}

func (l Limits) limiter() *rate.Limiter {
	if l.RPS <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(l.RPS), max(l.Burst, 1))
}

// Client is one websocket connection. Outbound frames go through a buffered
// outbox drained by WritePump, so Send never blocks the caller.
type Client struct {
	id      string
	conn    *websocket.Conn
	router  *game.Router
	limiter *rate.Limiter

	outbox    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, router *game.Router, limiter *rate.Limiter) *Client {
	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		router:  router,
		limiter: limiter,
		outbox:  make(chan []byte, outboxSize),
		done:    make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues msg for delivery. A client whose outbox is full is dropped.
func (c *Client) Send(msg internal.Message[any]) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.outbox <- data:
		return nil
	default:
		log.Warn().Str("conn", c.id).Str("type", msg.Type).Msg("[Send] outbox full, dropping client")
		c.Close()
		return ErrSlowClient
	}
}

// Close stops the pumps. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// ReadPump feeds inbound frames to the router until the connection fails,
// then releases the player's seat.
func (c *Client) ReadPump() {
	defer func() {
		c.router.Disconnect(c.id)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("conn", c.id).Msg("[ReadPump] unexpected close")
			}
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			c.router.ReplyError(c, internal.ErrRateLimited)
			continue
		}
		c.router.HandleMessage(c, data)
	}
}

// WritePump is the only writer on the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.outbox:
			if err := c.write(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("[WritePump] write failed")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// ServeWS upgrades the request and hands the connection to the router.
func ServeWS(router *game.Router, upgrader *websocket.Upgrader, limits Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Str("origin", r.Header.Get("Origin")).Msg("[ServeWS] upgrade failed")
			return
		}

		client := NewClient(conn, router, limits.limiter())
		router.Connect(client)
		log.Info().Str("conn", client.ID()).Str("remote", r.RemoteAddr).Msg("[ServeWS] client connected")

		go client.WritePump()
		go client.ReadPump()
	}
}
