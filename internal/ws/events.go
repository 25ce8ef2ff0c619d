package ws

import "encoding/json"

// Envelope is the wire frame for every gateway event, both directions
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound event types
const (
	EvJoinPod    = "join_pod"
	EvPodMessage = "pod_message"
	EvBattleMove = "battle_move"
)

// Outbound event types
const (
	EvConnected    = "connected"
	EvMemberJoined = "member_joined"
	EvMemberLeft   = "member_left"
	EvNewMessage   = "new_message"
	EvBattleUpdate = "battle_update"
	EvPresence     = "online_users_update"
)

type joinPodReq struct {
	PodID int64 `json:"podId"`
}

type podMessageReq struct {
	PodID   int64  `json:"podId"`
	Message string `json:"message"`
}

type battleMoveReq struct {
	BattleID string `json:"battleId"`
	Answer   string `json:"answer"`
}

type memberEvent struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type chatEvent struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type battleUpdateEvent struct {
	UserScore       int `json:"userScore"`
	OpponentScore   int `json:"opponentScore"`
	CurrentQuestion int `json:"currentQuestion"`
}

type presenceEvent struct {
	Count int `json:"count"`
}

// encode marshals an outbound event frame; payload errors cannot happen for
// the fixed event structs above
func encode(event string, payload any) []byte {
	data, _ := json.Marshal(payload)
	b, _ := json.Marshal(Envelope{Type: event, Data: data})
	return b
}
