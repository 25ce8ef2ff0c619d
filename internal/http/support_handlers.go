package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/idfuturestars/starguide/internal/store"
	"github.com/idfuturestars/starguide/pkg/auth"
)

type SupportAPI struct{ DB *store.Postgres }

type helpTicketReq struct {
	Subject     string `json:"subject"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// SubmitTicket files a help request for the caller
func (a *SupportAPI) SubmitTicket(w http.ResponseWriter, r *http.Request) {
	var req helpTicketReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Subject == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Priority == "" {
		req.Priority = "normal"
	}

	uid := auth.UserID(r.Context())
	id, err := a.DB.CreateHelpTicket(r.Context(), uid, req.Subject, req.Category, req.Priority, req.Description)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"ticketId": id})
}
