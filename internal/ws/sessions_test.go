package ws

import "testing"

func TestSessionRegistryCount(t *testing.T) {
	r := NewSessionRegistry()
	if r.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", r.Count())
	}

	c1 := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	c2 := NewConn(nil, AuthContext{UserID: "u2", DisplayName: "bob"})

	if n := r.Register("u1", c1); n != 1 {
		t.Errorf("Register(u1) count = %d, want 1", n)
	}
	if n := r.Register("u2", c2); n != 2 {
		t.Errorf("Register(u2) count = %d, want 2", n)
	}

	// same user again is idempotent for the count
	if n := r.Register("u1", c1); n != 2 {
		t.Errorf("re-Register(u1) count = %d, want 2", n)
	}

	if n, removed := r.Unregister("u1", c1); !removed || n != 1 {
		t.Errorf("Unregister(u1) = (%d, %v), want (1, true)", n, removed)
	}
	// unregister of a non-member is a no-op
	if n, removed := r.Unregister("nope", c1); removed || n != 1 {
		t.Errorf("Unregister(nope) = (%d, %v), want (1, false)", n, removed)
	}
}

func TestSessionRegistryLatestWins(t *testing.T) {
	r := NewSessionRegistry()
	old := NewConn(nil, AuthContext{UserID: "u1"})
	fresh := NewConn(nil, AuthContext{UserID: "u1"})

	r.Register("u1", old)
	r.Register("u1", fresh)
	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1 after reconnect", r.Count())
	}

	// the stale connection closing must not evict the newer one
	if _, removed := r.Unregister("u1", old); removed {
		t.Error("stale Unregister removed the fresh connection")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
	if _, removed := r.Unregister("u1", fresh); !removed {
		t.Error("fresh Unregister should remove the entry")
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
}

func TestSessionRegistrySnapshot(t *testing.T) {
	r := NewSessionRegistry()
	r.Register("u1", NewConn(nil, AuthContext{UserID: "u1"}))
	r.Register("u2", NewConn(nil, AuthContext{UserID: "u2"}))

	if got := len(r.Snapshot()); got != 2 {
		t.Errorf("len(Snapshot()) = %d, want 2", got)
	}
}
