package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/idfuturestars/starguide/internal/store"
	"github.com/idfuturestars/starguide/pkg/auth"
)

type TournamentsAPI struct{ DB *store.Postgres }

type tournamentDTO struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Participants    int       `json:"participants"`
	MaxParticipants int       `json:"maxParticipants"`
	PrizePool       int       `json:"prizePool"`
	Joined          bool      `json:"joined"`
}

// List returns active tournaments with the caller's participation flag
func (a *TournamentsAPI) List(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	ts, err := a.DB.ListTournaments(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]tournamentDTO, 0, len(ts))
	for _, t := range ts {
		resp = append(resp, tournamentDTO{
			ID: t.ID, Name: t.Name, Description: t.Description,
			StartDate: t.StartDate, EndDate: t.EndDate,
			Participants: t.Participants, MaxParticipants: t.MaxParticipants,
			PrizePool: t.PrizePool, Joined: t.Joined,
		})
	}
	writeJSON(w, resp)
}

// Join enrols the caller; joining twice is harmless
func (a *TournamentsAPI) Join(w http.ResponseWriter, r *http.Request) {
	tid, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "bad tournament id", http.StatusBadRequest)
		return
	}

	uid := auth.UserID(r.Context())
	if err := a.DB.JoinTournament(r.Context(), tid, uid); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"joined": true})
}

// challenge display copy keyed by type
var challengeInfo = map[string]struct {
	Name        string
	Description string
	XPReward    int
}{
	"math":    {"Math Sprint", "Solve 10 math problems in 5 minutes", 50},
	"science": {"Science Explorer", "Answer 10 science questions", 60},
	"mixed":   {"Knowledge Rush", "Mixed subject speed round", 75},
}

// DailyChallenges returns today's challenge set, generating it on first read
func (a *TournamentsAPI) DailyChallenges(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	cs, err := a.DB.GetDailyChallenges(r.Context(), uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]map[string]any, 0, len(cs))
	for _, c := range cs {
		info := challengeInfo[c.Type]
		resp = append(resp, map[string]any{
			"id":          c.ID,
			"type":        c.Type,
			"name":        info.Name,
			"description": info.Description,
			"xpReward":    info.XPReward,
			"completed":   c.Completed,
			"score":       c.Score,
		})
	}
	writeJSON(w, map[string]any{"challenges": resp})
}
