package httpx

import (
	"net/http"

	"log/slog"

	"github.com/idfuturestars/starguide/internal/ai"
	"github.com/idfuturestars/starguide/internal/app"
	"github.com/idfuturestars/starguide/internal/store"
	"github.com/idfuturestars/starguide/internal/ws"
	"github.com/idfuturestars/starguide/pkg/auth"
	"github.com/idfuturestars/starguide/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres, tutor *ai.Tutor) http.Handler {
	mw := NewMiddleware(cfg)
	j := auth.New(cfg.JWTSecret)

	authAPI := &AuthAPI{DB: db, JWT: j}
	podsAPI := &PodsAPI{DB: db}
	quizAPI := &QuizAPI{DB: db}
	battlesAPI := &BattlesAPI{Hub: hub}
	tournAPI := &TournamentsAPI{DB: db}
	analyticsAPI := &AnalyticsAPI{DB: db}
	supportAPI := &SupportAPI{DB: db}
	aiAPI := &AIAPI{DB: db, Tutor: tutor, Log: logger}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint (token verified inside, before upgrade)
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Auth + profile
	mux.Handle("POST /api/auth/register", http.HandlerFunc(authAPI.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(authAPI.Login))
	mux.Handle("GET /api/auth/me", mw.Auth(http.HandlerFunc(authAPI.Me)))
	mux.Handle("GET /api/profile", mw.Auth(http.HandlerFunc(authAPI.Profile)))

	// Learning pods
	mux.Handle("POST /api/pods", mw.Auth(http.HandlerFunc(podsAPI.Create)))
	mux.Handle("GET /api/pods", mw.Auth(http.HandlerFunc(podsAPI.List)))
	mux.Handle("GET /api/pods/{id}/messages", mw.Auth(http.HandlerFunc(podsAPI.Messages)))

	// Questions + assessments
	mux.Handle("POST /api/questions", mw.Auth(http.HandlerFunc(quizAPI.Questions)))
	mux.Handle("POST /api/questions/validate", mw.Auth(http.HandlerFunc(quizAPI.Validate)))
	mux.Handle("POST /api/assessments", mw.Auth(http.HandlerFunc(quizAPI.SubmitAssessment)))

	// Battles / tournaments / challenges
	mux.Handle("POST /api/battles/find", mw.Auth(http.HandlerFunc(battlesAPI.Find)))
	mux.Handle("GET /api/tournaments", mw.Auth(http.HandlerFunc(tournAPI.List)))
	mux.Handle("POST /api/tournaments/{id}/join", mw.Auth(http.HandlerFunc(tournAPI.Join)))
	mux.Handle("GET /api/challenges/daily", mw.Auth(http.HandlerFunc(tournAPI.DailyChallenges)))

	// Analytics + support
	mux.Handle("GET /api/analytics", mw.Auth(http.HandlerFunc(analyticsAPI.Get)))
	mux.Handle("POST /api/help-tickets", mw.Auth(http.HandlerFunc(supportAPI.SubmitTicket)))

	// AI tutor
	mux.Handle("POST /api/ai/chat", mw.Auth(http.HandlerFunc(aiAPI.Chat)))
	mux.Handle("GET /api/ai/providers", http.HandlerFunc(aiAPI.Providers))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
