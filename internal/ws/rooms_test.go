package ws

import (
	"testing"
)

// recv pops one queued frame without blocking; fails the test if none is there
func recv(t *testing.T, c *Conn) []byte {
	t.Helper()
	select {
	case b := <-c.out:
		return b
	default:
		t.Fatal("no frame queued")
		return nil
	}
}

// noFrame asserts the connection has nothing queued
func noFrame(t *testing.T, c *Conn) {
	t.Helper()
	select {
	case b := <-c.out:
		t.Fatalf("unexpected frame queued: %s", b)
	default:
	}
}

func TestRoomJoinIdempotent(t *testing.T) {
	rr := NewRoomRegistry()
	rm := rr.Ensure(1)
	c := NewConn(nil, AuthContext{UserID: "u1"})

	rm.Join(c, "u1")
	rm.Join(c, "u1")

	if got := len(rm.Members()); got != 1 {
		t.Errorf("len(Members()) = %d, want 1 after double join", got)
	}
}

func TestRoomLeaveAbsentIsNoop(t *testing.T) {
	rm := NewRoomRegistry().Ensure(1)
	c := NewConn(nil, AuthContext{UserID: "u1"})
	rm.Leave(c, "u1") // never joined
	if got := len(rm.Members()); got != 0 {
		t.Errorf("len(Members()) = %d, want 0", got)
	}
}

func TestBroadcastScopedToRoom(t *testing.T) {
	rr := NewRoomRegistry()
	mathRoom := rr.Ensure(1)
	sciRoom := rr.Ensure(2)

	inMath := NewConn(nil, AuthContext{UserID: "u1"})
	inSci := NewConn(nil, AuthContext{UserID: "u2"})
	mathRoom.Join(inMath, "u1")
	sciRoom.Join(inSci, "u2")

	mathRoom.Broadcast([]byte("hello"), nil)

	if got := string(recv(t, inMath)); got != "hello" {
		t.Errorf("math subscriber got %q, want hello", got)
	}
	noFrame(t, inSci)
}

func TestBroadcastExcludesSender(t *testing.T) {
	rm := NewRoomRegistry().Ensure(1)
	sender := NewConn(nil, AuthContext{UserID: "u1"})
	other := NewConn(nil, AuthContext{UserID: "u2"})
	rm.Join(sender, "u1")
	rm.Join(other, "u2")

	rm.Broadcast([]byte("x"), sender)

	noFrame(t, sender)
	if got := string(recv(t, other)); got != "x" {
		t.Errorf("other got %q, want x", got)
	}
}

func TestBroadcastOrderingWithinRoom(t *testing.T) {
	rm := NewRoomRegistry().Ensure(1)
	a := NewConn(nil, AuthContext{UserID: "u1"})
	b := NewConn(nil, AuthContext{UserID: "u2"})
	rm.Join(a, "u1")
	rm.Join(b, "u2")

	rm.Broadcast([]byte("A"), nil)
	rm.Broadcast([]byte("B"), nil)

	for _, c := range []*Conn{a, b} {
		if got := string(recv(t, c)); got != "A" {
			t.Errorf("first frame = %q, want A", got)
		}
		if got := string(recv(t, c)); got != "B" {
			t.Errorf("second frame = %q, want B", got)
		}
	}
}

func TestEnsureReturnsSameRoom(t *testing.T) {
	rr := NewRoomRegistry()
	if rr.Ensure(7) != rr.Ensure(7) {
		t.Error("Ensure should return the same room for the same pod")
	}
	if rr.Get(8) != nil {
		t.Error("Get of an untouched pod should be nil")
	}
	// a zero-member room stays addressable
	rm := rr.Ensure(9)
	rm.Broadcast([]byte("x"), nil) // no subscribers, must not panic
	if rr.Get(9) != rm {
		t.Error("empty room should remain registered")
	}
}
