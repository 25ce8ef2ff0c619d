package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/idfuturestars/starguide/internal/store"
	"github.com/idfuturestars/starguide/pkg/auth"
)

type PodsAPI struct{ DB *store.Postgres }

type createPodReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	MaxMembers  int    `json:"maxMembers"`
}

type podDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	CreatorName string    `json:"creatorName"`
	MemberCount int       `json:"memberCount"`
	MaxMembers  int       `json:"maxMembers"`
	CreatedAt   time.Time `json:"createdAt"`
}

type podMessageDTO struct {
	Username string    `json:"username"`
	Message  string    `json:"message"`
	SentAt   time.Time `json:"sentAt"`
}

// Create makes a new learning pod with the caller as admin member
func (a *PodsAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createPodReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Subject == "" {
		req.Subject = "general"
	}
	if req.MaxMembers <= 0 {
		req.MaxMembers = 10
	}

	uid := auth.UserID(r.Context())
	podID, err := a.DB.CreatePod(r.Context(), req.Name, req.Description, req.Subject, uid, req.MaxMembers)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"podId": podID})
}

// List returns active pods with member counts
func (a *PodsAPI) List(w http.ResponseWriter, r *http.Request) {
	pods, err := a.DB.ListPods(r.Context(), 20)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]podDTO, 0, len(pods))
	for _, p := range pods {
		resp = append(resp, podDTO{
			ID: p.ID, Name: p.Name, Description: p.Description, Subject: p.Subject,
			CreatorName: p.CreatorName, MemberCount: p.MemberCount,
			MaxMembers: p.MaxMembers, CreatedAt: p.CreatedAt,
		})
	}
	writeJSON(w, resp)
}

// Messages returns recent chat history for a pod. History replay is REST
// only; the live channel never replays.
func (a *PodsAPI) Messages(w http.ResponseWriter, r *http.Request) {
	podID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad pod id", http.StatusBadRequest)
		return
	}

	msgs, err := a.DB.ListPodMessages(r.Context(), podID, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]podMessageDTO, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, podMessageDTO{Username: m.Username, Message: m.Message, SentAt: m.SentAt})
	}
	writeJSON(w, resp)
}
