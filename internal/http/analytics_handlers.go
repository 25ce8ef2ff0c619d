package httpx

import (
	"math"
	"net/http"

	"github.com/idfuturestars/starguide/internal/store"
	"github.com/idfuturestars/starguide/pkg/auth"
)

type AnalyticsAPI struct{ DB *store.Postgres }

// totalAchievements is the size of the defined achievement catalogue
const totalAchievements = 20

// Get returns the caller's learning analytics rollup
func (a *AnalyticsAPI) Get(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	ctx := r.Context()

	stats, err := a.DB.GetAssessmentStats(ctx, uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	subjects, err := a.DB.GetSubjectPerformance(ctx, uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	recent, err := a.DB.RecentActivity(ctx, uid, 20)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	unlocked, err := a.DB.CountAchievements(ctx, uid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	subjectsOut := make([]map[string]any, 0, len(subjects))
	for _, s := range subjects {
		subjectsOut = append(subjectsOut, map[string]any{
			"subject":      s.Subject,
			"count":        s.Count,
			"averageScore": math.Round(s.AverageScore*10) / 10,
		})
	}
	recentOut := make([]map[string]any, 0, len(recent))
	for _, e := range recent {
		recentOut = append(recentOut, map[string]any{
			"eventType": e.Type,
			"eventData": e.Data,
			"createdAt": e.CreatedAt,
		})
	}

	writeJSON(w, map[string]any{
		"assessments": map[string]any{
			"total":        stats.Total,
			"averageScore": math.Round(stats.AverageScore*10) / 10,
			"bestScore":    stats.BestScore,
			"totalTime":    stats.TotalTime,
		},
		"subjects": subjectsOut,
		"achievements": map[string]any{
			"unlocked": unlocked,
			"total":    totalAchievements,
		},
		"recentActivity": recentOut,
	})
}
