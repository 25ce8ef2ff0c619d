package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/idfuturestars/starguide/internal/store"
	"github.com/idfuturestars/starguide/pkg/auth"
)

type QuizAPI struct{ DB *store.Postgres }

type questionsReq struct {
	Subject    string `json:"subject"`
	Count      int    `json:"count"`
	Difficulty int    `json:"difficulty"`
}

type questionDTO struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Type       string `json:"type"`
	Hint       string `json:"hint"`
	Difficulty int    `json:"difficulty"`
}

// Questions returns a random selection for an assessment. Correct answers
// are never included in the response.
func (a *QuizAPI) Questions(w http.ResponseWriter, r *http.Request) {
	var req questionsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 || req.Count > 50 {
		req.Count = 10
	}

	qs, err := a.DB.RandomQuestions(r.Context(), req.Subject, req.Difficulty, req.Count)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]questionDTO, 0, len(qs))
	for _, q := range qs {
		resp = append(resp, questionDTO{ID: q.ID, Question: q.Question, Type: q.Type, Hint: q.Hint, Difficulty: q.Difficulty})
	}
	writeJSON(w, map[string]any{"questions": resp})
}

type validateReq struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

// Validate checks an answer: case-insensitive string match, with a 0.01
// tolerance when both sides parse as numbers. Folds the result into the
// question's success rate.
func (a *QuizAPI) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	correct, explanation, err := a.DB.GetQuestionAnswer(r.Context(), req.QuestionID)
	if err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			http.Error(w, "question not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	isCorrect := answersMatch(req.Answer, correct)
	if err := a.DB.RecordAnswer(r.Context(), req.QuestionID, isCorrect); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"correct": isCorrect, "explanation": explanation}
	if !isCorrect {
		resp["correctAnswer"] = correct
	}
	writeJSON(w, resp)
}

// answersMatch compares normalized answers, allowing numeric tolerance
func answersMatch(got, want string) bool {
	got = strings.ToLower(strings.TrimSpace(got))
	want = strings.ToLower(strings.TrimSpace(want))
	if got == want {
		return true
	}
	gn, err1 := strconv.ParseFloat(got, 64)
	wn, err2 := strconv.ParseFloat(want, 64)
	if err1 == nil && err2 == nil {
		d := gn - wn
		if d < 0 {
			d = -d
		}
		return d < 0.01
	}
	return false
}

type assessmentReq struct {
	Type           string          `json:"type"`
	Subject        string          `json:"subject"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	TimeTaken      int             `json:"timeTaken"`
	Answers        json.RawMessage `json:"answers"`
}

// SubmitAssessment stores a finished assessment, awards XP and achievements,
// and reports any level-up
func (a *QuizAPI) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if req.Answers == nil {
		req.Answers = json.RawMessage("[]")
	}

	uid := auth.UserID(r.Context())
	ctx := r.Context()

	if err := a.DB.InsertAssessment(ctx, uid, store.AssessmentResult{
		Type: req.Type, Subject: req.Subject, Score: req.Score,
		TotalQuestions: req.TotalQuestions, TimeTaken: req.TimeTaken,
		AnswersJSON: string(req.Answers),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// XP: flat base plus a score bonus
	xpEarned := 10 + req.Score/10
	newXP, newLevel, levelUp, err := a.DB.AddXP(ctx, uid, xpEarned)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	unlocked := a.checkAchievements(r, uid, req)

	// analytics loss is not worth failing the submission
	raw, _ := json.Marshal(req)
	_ = a.DB.TrackEvent(ctx, uid, "assessment_completed", string(raw))

	resp := map[string]any{
		"xpEarned":     xpEarned,
		"newXP":        newXP,
		"levelUp":      levelUp,
		"achievements": unlocked,
	}
	if levelUp {
		resp["newLevel"] = newLevel
	}
	writeJSON(w, resp)
}

// achievement predicates for assessment submissions
func (a *QuizAPI) checkAchievements(r *http.Request, uid string, req assessmentReq) []store.Achievement {
	ctx := r.Context()
	unlocked := []store.Achievement{}

	award := func(id, name, desc string) {
		if ok, err := a.DB.UnlockAchievement(ctx, uid, id); err == nil && ok {
			unlocked = append(unlocked, store.Achievement{ID: id, Name: name, Description: desc})
		}
	}

	if n, err := a.DB.CountAssessments(ctx, uid); err == nil && n == 1 {
		award("first-steps", "First Steps", "Complete your first assessment")
	}
	if req.Score >= 80 {
		award("high-scorer", "High Scorer", "Score 80% or higher")
	}
	if req.Score == 100 {
		award("perfectionist", "Perfectionist", "Achieve a perfect score")
	}
	if req.TimeTaken > 0 && req.TimeTaken < 300 {
		award("quick-learner", "Quick Learner", "Complete an assessment in under 5 minutes")
	}
	return unlocked
}
