package httpx

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/idfuturestars/starguide/internal/ai"
	"github.com/idfuturestars/starguide/internal/store"
	"github.com/idfuturestars/starguide/pkg/auth"
)

type AIAPI struct {
	DB    *store.Postgres
	Tutor *ai.Tutor
	Log   *slog.Logger
}

type aiChatReq struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
}

// Chat proxies a student message to the AI tutor and logs the exchange
func (a *AIAPI) Chat(w http.ResponseWriter, r *http.Request) {
	var req aiChatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "no message provided", http.StatusBadRequest)
		return
	}
	if req.Provider == "" {
		req.Provider = "openai"
	}

	reply, provider, elapsed := a.Tutor.Chat(r.Context(), req.Message, req.Provider)

	uid := auth.UserID(r.Context())
	if err := a.DB.LogAIChat(r.Context(), uid, provider, req.Message, reply, int(elapsed.Milliseconds())); err != nil {
		a.Log.Error("ai.log", "err", err)
	}

	writeJSON(w, map[string]any{
		"response":     reply,
		"provider":     provider,
		"responseTime": elapsed.Seconds(),
	})
}

// Providers reports which AI providers have keys configured
func (a *AIAPI) Providers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.Tutor.Providers())
}
