package ws

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/idfuturestars/starguide/pkg/auth"
)

// --- Test setup ---

func newTestLogger() *slog.Logger {
	// Discard logger output during tests by setting a high level
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return slog.New(handler)
}

type fakeStore struct {
	mu      sync.Mutex
	saved   []string // "podID:userID:text"
	saveErr error
	members map[string]bool // "podID:userID"
}

func (f *fakeStore) SavePodMessage(_ context.Context, podID int64, userID, text string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, itoa(podID)+":"+userID+":"+text)
	return nil
}

func (f *fakeStore) IsPodMember(_ context.Context, podID int64, userID string) (bool, error) {
	return f.members[itoa(podID)+":"+userID], nil
}

func (f *fakeStore) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func newTestHub(db Store, policy string) *Hub {
	return NewHub(newTestLogger(), nil, db, auth.New("test-secret"), policy, time.Hour)
}

// decodeFrame unmarshals a queued frame into its envelope
func decodeFrame(t *testing.T, b []byte) (string, map[string]any) {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("bad frame %s: %v", b, err)
	}
	var data map[string]any
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("bad payload %s: %v", env.Data, err)
		}
	}
	return env.Type, data
}

// drain discards everything queued on the connection
func drain(c *Conn) {
	for {
		select {
		case <-c.out:
		default:
			return
		}
	}
}

// --- Gateway behavior ---

func TestJoinPodAnnouncesMember(t *testing.T) {
	h := newTestHub(&fakeStore{}, "open")
	ctx := context.Background()

	c := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	h.register(ctx, c)
	drain(c)

	h.joinPod(ctx, c, 1)

	typ, data := decodeFrame(t, recv(t, c))
	if typ != EvMemberJoined {
		t.Fatalf("event = %q, want %q", typ, EvMemberJoined)
	}
	if data["username"] != "alice" {
		t.Errorf("username = %v, want alice", data["username"])
	}
}

func TestEmptyMessageIgnored(t *testing.T) {
	db := &fakeStore{}
	h := newTestHub(db, "open")
	ctx := context.Background()

	c := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	h.register(ctx, c)
	h.joinPod(ctx, c, 1)
	drain(c)

	h.podMessage(ctx, c, 1, "   \t ")

	if db.savedCount() != 0 {
		t.Errorf("saved %d messages, want 0", db.savedCount())
	}
	noFrame(t, c)
}

func TestMessageRequiresJoin(t *testing.T) {
	db := &fakeStore{}
	h := newTestHub(db, "open")
	ctx := context.Background()

	c := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	h.register(ctx, c)
	drain(c)

	h.podMessage(ctx, c, 1, "hello")

	if db.savedCount() != 0 {
		t.Errorf("saved %d messages, want 0 without a join", db.savedCount())
	}
	noFrame(t, c)
}

func TestPersistFailureStillBroadcasts(t *testing.T) {
	db := &fakeStore{saveErr: errors.New("db down")}
	h := newTestHub(db, "open")
	ctx := context.Background()

	c := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	h.register(ctx, c)
	h.joinPod(ctx, c, 1)
	drain(c)

	h.podMessage(ctx, c, 1, "hello")

	typ, data := decodeFrame(t, recv(t, c))
	if typ != EvNewMessage {
		t.Fatalf("event = %q, want %q", typ, EvNewMessage)
	}
	if data["message"] != "hello" {
		t.Errorf("message = %v, want hello", data["message"])
	}
}

func TestNoReplayOnJoin(t *testing.T) {
	db := &fakeStore{}
	h := newTestHub(db, "open")
	ctx := context.Background()

	u1 := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	h.register(ctx, u1)
	h.joinPod(ctx, u1, 1)
	h.podMessage(ctx, u1, 1, "hello")
	drain(u1)

	// u2 joins after the message was sent: no replay
	u2 := NewConn(nil, AuthContext{UserID: "u2", DisplayName: "bob"})
	h.register(ctx, u2)
	h.joinPod(ctx, u2, 1)
	drain(u2)

	// a message sent after the join is delivered live
	h.podMessage(ctx, u1, 1, "welcome bob")
	typ, data := decodeFrame(t, recv(t, u2))
	if typ != EvNewMessage || data["message"] != "welcome bob" {
		t.Errorf("got %q %v, want new_message welcome bob", typ, data)
	}
	noFrame(t, u2)
}

func TestBattleMoveUnknownIDIsSilent(t *testing.T) {
	h := newTestHub(&fakeStore{}, "open")
	ctx := context.Background()

	c := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	h.register(ctx, c)
	drain(c)

	h.battleMove(c, "battle_missing")
	noFrame(t, c)
}

func TestBattleMoveUnicastsState(t *testing.T) {
	h := newTestHub(&fakeStore{}, "open")
	ctx := context.Background()

	c := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	other := NewConn(nil, AuthContext{UserID: "u2", DisplayName: "bob"})
	h.register(ctx, c)
	h.register(ctx, other)
	drain(c)
	drain(other)

	b := h.Battles().Create("u1")
	h.battleMove(c, b.ID)

	typ, data := decodeFrame(t, recv(t, c))
	if typ != EvBattleUpdate {
		t.Fatalf("event = %q, want %q", typ, EvBattleUpdate)
	}
	if data["currentQuestion"] != float64(1) {
		t.Errorf("currentQuestion = %v, want 1", data["currentQuestion"])
	}
	noFrame(t, other)
}

func TestDisconnectUpdatesPresence(t *testing.T) {
	h := newTestHub(&fakeStore{}, "open")
	ctx := context.Background()

	u1 := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	u2 := NewConn(nil, AuthContext{UserID: "u2", DisplayName: "bob"})
	h.register(ctx, u1)
	h.register(ctx, u2)
	h.joinPod(ctx, u2, 1)
	drain(u1)
	drain(u2)

	h.drop(ctx, u2)

	if h.OnlineCount() != 1 {
		t.Errorf("OnlineCount() = %d, want 1", h.OnlineCount())
	}

	// u1 was not in the room, so its next frame is the presence update
	typ, data := decodeFrame(t, recv(t, u1))
	if typ != EvPresence {
		t.Fatalf("event = %q, want %q", typ, EvPresence)
	}
	if data["count"] != float64(1) {
		t.Errorf("presence count = %v, want 1", data["count"])
	}
}

func TestDisconnectAnnouncesLeave(t *testing.T) {
	h := newTestHub(&fakeStore{}, "open")
	ctx := context.Background()

	u1 := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	u2 := NewConn(nil, AuthContext{UserID: "u2", DisplayName: "bob"})
	h.register(ctx, u1)
	h.register(ctx, u2)
	h.joinPod(ctx, u1, 1)
	h.joinPod(ctx, u2, 1)
	drain(u1)
	drain(u2)

	h.drop(ctx, u2)

	typ, data := decodeFrame(t, recv(t, u1))
	if typ != EvMemberLeft {
		t.Fatalf("event = %q, want %q", typ, EvMemberLeft)
	}
	if data["username"] != "bob" {
		t.Errorf("username = %v, want bob", data["username"])
	}
}

func TestJoinPolicyMembers(t *testing.T) {
	db := &fakeStore{members: map[string]bool{"1:u1": true}}
	h := newTestHub(db, "members")
	ctx := context.Background()

	member := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	outsider := NewConn(nil, AuthContext{UserID: "u2", DisplayName: "bob"})
	h.register(ctx, member)
	h.register(ctx, outsider)
	drain(member)
	drain(outsider)

	h.joinPod(ctx, outsider, 1)
	noFrame(t, outsider)

	h.joinPod(ctx, member, 1)
	typ, _ := decodeFrame(t, recv(t, member))
	if typ != EvMemberJoined {
		t.Errorf("event = %q, want %q", typ, EvMemberJoined)
	}
}

func TestHandleEventDispatch(t *testing.T) {
	db := &fakeStore{}
	h := newTestHub(db, "open")
	ctx := context.Background()

	c := NewConn(nil, AuthContext{UserID: "u1", DisplayName: "alice"})
	h.register(ctx, c)
	drain(c)

	h.handleEvent(ctx, c, Envelope{Type: EvJoinPod, Data: json.RawMessage(`{"podId":1}`)})
	drain(c)
	h.handleEvent(ctx, c, Envelope{Type: EvPodMessage, Data: json.RawMessage(`{"podId":1,"message":"hi"}`)})

	if db.savedCount() != 1 {
		t.Fatalf("saved %d messages, want 1", db.savedCount())
	}
	typ, _ := decodeFrame(t, recv(t, c))
	if typ != EvNewMessage {
		t.Errorf("event = %q, want %q", typ, EvNewMessage)
	}

	// malformed and unknown frames are ignored
	h.handleEvent(ctx, c, Envelope{Type: EvPodMessage, Data: json.RawMessage(`{`)})
	h.handleEvent(ctx, c, Envelope{Type: "warp_drive"})
	noFrame(t, c)
}
