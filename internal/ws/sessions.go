package ws

import "sync"

// SessionRegistry maps user IDs to their live connection. A user opening a
// second connection overwrites the first entry (last connect wins), so the
// presence count is the number of distinct users.
type SessionRegistry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{conns: map[string]*Conn{}}
}

// Register stores the connection for a user, replacing any prior one.
// Returns the resulting distinct-user count.
func (r *SessionRegistry) Register(userID string, c *Conn) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userID] = c
	return len(r.conns)
}

// Unregister removes the user's entry only if it still points at c, so a
// stale connection closing cannot evict a newer one. Returns the resulting
// count and whether anything was removed.
func (r *SessionRegistry) Unregister(userID string, c *Conn) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.conns[userID]
	if !ok || cur != c {
		return len(r.conns), false
	}
	delete(r.conns, userID)
	return len(r.conns), true
}

// Count returns the number of distinct registered users
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Snapshot copies the current connections for process-wide fan-out
func (r *SessionRegistry) Snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
