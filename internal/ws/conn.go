package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// AuthContext is the principal resolved once at accept time and attached to
// the connection; gateway actions never re-derive it
type AuthContext struct {
	UserID      string
	DisplayName string
}

type Conn struct {
	ws  *websocket.Conn
	out chan []byte
	id  AuthContext

	mu     sync.Mutex
	joined map[int64]struct{} // pods this connection is live-subscribed to
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a WS connection for an authenticated user
func NewConn(ws *websocket.Conn, id AuthContext) *Conn {
	return &Conn{
		ws:     ws,
		id:     id,
		out:    make(chan []byte, 256),
		joined: map[int64]struct{}{},
	}
}

// Identity returns the auth context attached at accept time
func (c *Conn) Identity() AuthContext { return c.id }

// Send enqueues a frame without blocking; frames are dropped when the
// buffer is full (dead peers are reaped at disconnect, not here)
func (c *Conn) Send(b []byte) {
	select {
	case c.out <- b:
	default:
	}
}

// markJoined records a live pod subscription, returns false if already joined
func (c *Conn) markJoined(podID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.joined[podID]; ok {
		return false
	}
	c.joined[podID] = struct{}{}
	return true
}

// hasJoined reports whether the connection subscribed to the pod
func (c *Conn) hasJoined(podID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.joined[podID]
	return ok
}

// joinedPods snapshots the subscription set (used at disconnect)
func (c *Conn) joinedPods() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, 0, len(c.joined))
	for id := range c.joined {
		out = append(out, id)
	}
	return out
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop sends outbound messages + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close closes the WS connection normally
func (c *Conn) Close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
