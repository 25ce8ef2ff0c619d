package store

import "context"

// SaveBattleResult records a finished duel in the history table
func (p *Postgres) SaveBattleResult(ctx context.Context, userID, opponentID string, userScore, opponentScore, xpEarned, durationSec int) error {
	winner := opponentID
	if userScore >= opponentScore {
		winner = userID
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO battles (user_id, opponent_id, user_score, opponent_score, winner_id, xp_earned, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, userID, opponentID, userScore, opponentScore, winner, xpEarned, durationSec)
	return err
}
