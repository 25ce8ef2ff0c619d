package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/idfuturestars/starguide/pkg/auth"
	"github.com/idfuturestars/starguide/pkg/metrics"
)

// Store is the durable collaborator the gateway needs: message persistence
// and the membership check behind the "members" join policy.
type Store interface {
	SavePodMessage(ctx context.Context, podID int64, userID, text string) error
	IsPodMember(ctx context.Context, podID int64, userID string) (bool, error)
}

// Hub is the realtime gateway: it ties connection events to the session and
// room registries and issues the broadcasts.
type Hub struct {
	log *slog.Logger
	bus *RedisBus // nil when redis is not configured
	db  Store
	jwt *auth.JWT

	instanceID string
	joinPolicy string // "open" or "members"

	sessions *SessionRegistry
	rooms    *RoomRegistry
	battles  *BattleTable
}

// NewHub sets up the gateway with its registries. bus may be nil.
func NewHub(logger *slog.Logger, bus *RedisBus, db Store, jwt *auth.JWT, joinPolicy string, battleTTL time.Duration) *Hub {
	return &Hub{
		log:        logger,
		bus:        bus,
		db:         db,
		jwt:        jwt,
		instanceID: ulid.Make().String(),
		joinPolicy: joinPolicy,
		sessions:   NewSessionRegistry(),
		rooms:      NewRoomRegistry(),
		battles:    NewBattleTable(battleTTL),
	}
}

// Battles exposes the live battle table to the HTTP layer
func (h *Hub) Battles() *BattleTable { return h.battles }

// OnlineCount returns the current presence count (local registry)
func (h *Hub) OnlineCount() int { return h.sessions.Count() }

// Run forwards bus frames to local rooms and reaps idle battles until the
// context is cancelled
func (h *Hub) Run(ctx context.Context) {
	go h.battles.Run(ctx)
	if h.bus != nil {
		go h.bus.Subscribe(ctx, func(m BusMessage) {
			if m.Origin == h.instanceID {
				return // already delivered locally at publish time
			}
			if m.PodID == 0 {
				for _, c := range h.sessions.Snapshot() {
					c.Send(m.Payload)
				}
				return
			}
			if rm := h.rooms.Get(m.PodID); rm != nil {
				rm.Broadcast(m.Payload, nil)
			}
		})
	}
	<-ctx.Done()
}

// ServeWS handles a new /ws connection. Authentication is inherited from the
// enclosing request: a bearer token in the Authorization header or a ?token=
// query parameter (browsers cannot set headers on websocket upgrades).
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		tok = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	id, err := h.jwt.Verify(tok)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wsc, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	ctx := r.Context()
	c := NewConn(wsc, AuthContext{UserID: id.UserID, DisplayName: id.DisplayName})

	metrics.WSConnections.Inc()
	h.register(ctx, c)
	c.Send(encode(EvConnected, map[string]string{"message": "Connected to StarGuide server"}))

	go c.WriteLoop(ctx)

	for {
		raw, ok := c.Read(ctx)
		if !ok {
			break
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			h.log.Debug("ws.frame.decode", "err", err)
			continue
		}
		h.handleEvent(ctx, c, env)
	}

	h.drop(ctx, c)
	metrics.WSConnections.Dec()
	_ = c.Close()
}

// handleEvent applies one inbound event to the registries. Precondition
// violations (unknown battle, not joined, empty text) are silently ignored.
func (h *Hub) handleEvent(ctx context.Context, c *Conn, env Envelope) {
	switch env.Type {
	case EvJoinPod:
		var req joinPodReq
		if err := json.Unmarshal(env.Data, &req); err != nil || req.PodID == 0 {
			return
		}
		h.joinPod(ctx, c, req.PodID)

	case EvPodMessage:
		var req podMessageReq
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return
		}
		h.podMessage(ctx, c, req.PodID, req.Message)

	case EvBattleMove:
		var req battleMoveReq
		if err := json.Unmarshal(env.Data, &req); err != nil {
			return
		}
		h.battleMove(c, req.BattleID)

	default:
		h.log.Debug("ws.event.unknown", "type", env.Type)
	}
}

// register adds the connection to the session registry and republishes
// presence
func (h *Hub) register(ctx context.Context, c *Conn) {
	count := h.sessions.Register(c.Identity().UserID, c)
	h.publishPresence(ctx, count, true)
	h.log.Debug("ws.session.register", "user", c.Identity().UserID, "count", count)
}

// drop tears the connection down: leave all rooms with a member_left
// broadcast, unregister the session, republish presence
func (h *Hub) drop(ctx context.Context, c *Conn) {
	id := c.Identity()
	for _, podID := range c.joinedPods() {
		if rm := h.rooms.Get(podID); rm != nil {
			rm.Leave(c, id.UserID)
			h.broadcast(ctx, podID, rm, encode(EvMemberLeft, memberEvent{
				Username: id.DisplayName,
				Message:  id.DisplayName + " left the pod",
			}), nil)
		}
	}

	count, removed := h.sessions.Unregister(id.UserID, c)
	if removed {
		h.publishPresence(ctx, count, false)
	}
	h.log.Debug("ws.session.drop", "user", id.UserID, "count", count)
}

// joinPod subscribes the connection to a pod's live room and announces it
func (h *Hub) joinPod(ctx context.Context, c *Conn, podID int64) {
	id := c.Identity()

	if h.joinPolicy == "members" {
		ok, err := h.db.IsPodMember(ctx, podID, id.UserID)
		if err != nil {
			h.log.Error("ws.join.membercheck", "pod", podID, "err", err)
			return
		}
		if !ok {
			return
		}
	}

	rm := h.rooms.Ensure(podID)
	rm.Join(c, id.UserID)
	c.markJoined(podID)

	// the joiner receives its own announcement, matching client expectations
	h.broadcast(ctx, podID, rm, encode(EvMemberJoined, memberEvent{
		Username: id.DisplayName,
		Message:  id.DisplayName + " joined the pod",
	}), nil)
}

// podMessage persists and broadcasts a chat message. Empty text is ignored;
// a persistence failure is logged and the broadcast still goes out.
func (h *Hub) podMessage(ctx context.Context, c *Conn, podID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" || !c.hasJoined(podID) {
		return
	}

	id := c.Identity()
	if err := h.db.SavePodMessage(ctx, podID, id.UserID, text); err != nil {
		h.log.Error("ws.message.persist", "pod", podID, "err", err)
	}

	rm := h.rooms.Get(podID)
	if rm == nil {
		return
	}
	h.broadcast(ctx, podID, rm, encode(EvNewMessage, chatEvent{
		Username:  id.DisplayName,
		Message:   text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}), nil)
	metrics.PodMessages.Inc()
}

// battleMove advances a battle and unicasts the state back to the sender.
// An unknown battle id is a silent no-op.
func (h *Hub) battleMove(c *Conn, battleID string) {
	b, ok := h.battles.Move(battleID)
	if !ok {
		return
	}
	c.Send(encode(EvBattleUpdate, battleUpdateEvent{
		UserScore:       b.UserScore,
		OpponentScore:   b.OpponentScore,
		CurrentQuestion: b.CurrentQuestion,
	}))
}

// broadcast delivers locally and mirrors the frame onto the bus for other
// instances
func (h *Hub) broadcast(ctx context.Context, podID int64, rm *Room, frame []byte, exclude *Conn) {
	rm.Broadcast(frame, exclude)
	if h.bus != nil {
		if err := h.bus.Publish(ctx, BusMessage{Origin: h.instanceID, PodID: podID, Payload: frame}); err != nil {
			h.log.Debug("ws.bus.publish", "pod", podID, "err", err)
		}
	}
}

// publishPresence fans the current count out to every local connection and,
// when a bus is configured, uses the cluster-wide counter instead
func (h *Hub) publishPresence(ctx context.Context, localCount int, joined bool) {
	count := localCount
	if h.bus != nil {
		var n int64
		var err error
		if joined {
			n, err = h.bus.AddOnline(ctx)
		} else {
			n, err = h.bus.RemoveOnline(ctx)
		}
		if err == nil {
			count = int(n)
		} else {
			h.log.Debug("ws.presence.bus", "err", err)
		}
	}

	frame := encode(EvPresence, presenceEvent{Count: count})
	for _, c := range h.sessions.Snapshot() {
		c.Send(frame)
	}
	if h.bus != nil {
		_ = h.bus.Publish(ctx, BusMessage{Origin: h.instanceID, PodID: 0, Payload: frame})
	}
}
