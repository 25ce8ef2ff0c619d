package ws

import "sync"

// Room is the live counterpart of a learning pod: the set of subscribed
// connections plus the member user IDs. Each room has its own lock so
// unrelated pods' traffic never serializes.
type Room struct {
	mu      sync.Mutex
	conns   map[*Conn]struct{}
	members map[string]struct{}
}

func newRoom() *Room {
	return &Room{conns: map[*Conn]struct{}{}, members: map[string]struct{}{}}
}

// Join subscribes the connection and adds its user to the member set
func (r *Room) Join(c *Conn, userID string) {
	r.mu.Lock()
	r.conns[c] = struct{}{}
	r.members[userID] = struct{}{}
	r.mu.Unlock()
}

// Leave drops the subscription; the member entry goes too. No-op when absent.
func (r *Room) Leave(c *Conn, userID string) {
	r.mu.Lock()
	delete(r.conns, c)
	delete(r.members, userID)
	r.mu.Unlock()
}

// Members returns a snapshot of the member user IDs
func (r *Room) Members() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	return out
}

// Broadcast enqueues a frame to every subscriber, optionally excluding one
// connection. The frame is enqueued under the room lock, which is the single
// dispatch point that gives per-room FIFO ordering. Sends never block; a
// subscriber with a full buffer misses the frame.
func (r *Room) Broadcast(b []byte, exclude *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.conns {
		if c == exclude {
			continue
		}
		c.Send(b)
	}
}

// RoomRegistry owns the live rooms by pod ID
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[int64]*Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: map[int64]*Room{}}
}

// Ensure returns the room for a pod, creating an empty one on first touch.
// Rooms are never deleted; a zero-member room is just never broadcast to.
func (rr *RoomRegistry) Ensure(podID int64) *Room {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rm := rr.rooms[podID]
	if rm == nil {
		rm = newRoom()
		rr.rooms[podID] = rm
	}
	return rm
}

// Get returns the room if it has a live entry, nil otherwise
func (rr *RoomRegistry) Get(podID int64) *Room {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.rooms[podID]
}
