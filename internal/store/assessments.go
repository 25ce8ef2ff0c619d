package store

import (
	"context"
)

// InsertAssessment records a completed assessment
func (p *Postgres) InsertAssessment(ctx context.Context, userID string, r AssessmentResult) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO assessments (user_id, atype, subject, score, total_questions, time_taken, questions_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, r.Type, r.Subject, r.Score, r.TotalQuestions, r.TimeTaken, r.AnswersJSON)
	return err
}

// CountAssessments returns how many assessments the user has completed
func (p *Postgres) CountAssessments(ctx context.Context, userID string) (int, error) {
	var n int
	row := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessments WHERE user_id = $1`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UnlockAchievement awards an achievement once; returns true if newly unlocked
func (p *Postgres) UnlockAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	ct, err := p.pool.Exec(ctx, `
		INSERT INTO achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, achievementID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// CountAchievements returns how many achievements the user has unlocked
func (p *Postgres) CountAchievements(ctx context.Context, userID string) (int, error) {
	var n int
	row := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM achievements WHERE user_id = $1`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// TrackEvent appends an analytics event; callers treat failures as non-fatal
func (p *Postgres) TrackEvent(ctx context.Context, userID, eventType, dataJSON string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO analytics_events (user_id, event_type, event_data)
		VALUES ($1, $2, $3)
	`, userID, eventType, dataJSON)
	return err
}

// GetAssessmentStats aggregates a user's assessment history
func (p *Postgres) GetAssessmentStats(ctx context.Context, userID string) (AssessmentStats, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(score), 0),
		       COALESCE(MAX(score), 0),
		       COALESCE(SUM(time_taken), 0)
		FROM assessments
		WHERE user_id = $1
	`, userID)

	var s AssessmentStats
	if err := row.Scan(&s.Total, &s.AverageScore, &s.BestScore, &s.TotalTime); err != nil {
		return AssessmentStats{}, err
	}
	return s, nil
}

// GetSubjectPerformance breaks assessment scores down per subject
func (p *Postgres) GetSubjectPerformance(ctx context.Context, userID string) ([]SubjectStat, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT subject, COUNT(*), AVG(score)
		FROM assessments
		WHERE user_id = $1 AND subject <> 'mixed'
		GROUP BY subject
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SubjectStat
	for rows.Next() {
		var s SubjectStat
		if err := rows.Scan(&s.Subject, &s.Count, &s.AverageScore); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentActivity returns the user's latest analytics events
func (p *Postgres) RecentActivity(ctx context.Context, userID string, limit int) ([]ActivityEvent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT event_type, event_data, created_at
		FROM analytics_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivityEvent
	for rows.Next() {
		var e ActivityEvent
		if err := rows.Scan(&e.Type, &e.Data, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
