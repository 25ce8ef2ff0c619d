package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/idfuturestars/starguide/internal/store"
	"github.com/idfuturestars/starguide/pkg/auth"
)

type AuthAPI struct {
	DB  *store.Postgres
	JWT *auth.JWT
}

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type tokenResp struct {
	Token string      `json:"token"`
	User  authUserDTO `json:"user"`
}
type authUserDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Register handles user signup and returns a JWT
func (a *AuthAPI) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	// Basic validation
	if len(req.Password) < 8 || !strings.Contains(req.Email, "@") || req.Username == "" {
		http.Error(w, "invalid email, username or weak password", http.StatusBadRequest)
		return
	}

	// Create user + profile
	u, err := a.DB.CreateUser(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		http.Error(w, "email or username already in use", http.StatusConflict)
		return
	}

	// Issue token for 24hrs
	tok, _ := a.JWT.Sign(auth.Identity{UserID: u.ID, DisplayName: u.Username}, 24*time.Hour)
	writeJSON(w, tokenResp{Token: tok, User: authUserDTO{ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role}})
}

// Login verifies credentials and returns a JWT
func (a *AuthAPI) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	// Check credentials
	u, err := a.DB.VerifyUser(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	// Issue token (24h)
	tok, _ := a.JWT.Sign(auth.Identity{UserID: u.ID, DisplayName: u.Username}, 24*time.Hour)
	writeJSON(w, tokenResp{Token: tok, User: authUserDTO{ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role}})
}

// Me returns the authenticated user's identity
func (a *AuthAPI) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.From(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]string{"userId": id.UserID, "username": id.DisplayName})
}

// Profile returns the gamification profile for the authenticated user
func (a *AuthAPI) Profile(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	p, err := a.DB.GetProfile(r.Context(), uid)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"userId":      p.UserID,
		"displayName": p.DisplayName,
		"level":       p.Level,
		"xp":          p.XP,
		"credits":     p.Credits,
		"streak":      p.Streak,
	})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
