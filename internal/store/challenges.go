package store

import (
	"context"
	"time"
)

// challenge types generated for every user each day
var dailyChallengeTypes = []string{"math", "science", "mixed"}

// GetDailyChallenges returns today's challenges for the user, generating the
// standard set on first read of the day
func (p *Postgres) GetDailyChallenges(ctx context.Context, userID string) ([]DailyChallenge, error) {
	today := time.Now().Format("2006-01-02")

	for _, ct := range dailyChallengeTypes {
		if _, err := p.pool.Exec(ctx, `
			INSERT INTO daily_challenges (user_id, challenge_date, challenge_type)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, userID, today, ct); err != nil {
			return nil, err
		}
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, challenge_type, completed, score
		FROM daily_challenges
		WHERE user_id = $1 AND challenge_date = $2
		ORDER BY id
	`, userID, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyChallenge
	for rows.Next() {
		var c DailyChallenge
		if err := rows.Scan(&c.ID, &c.Type, &c.Completed, &c.Score); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
