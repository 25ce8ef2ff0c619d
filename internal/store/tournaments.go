package store

import "context"

// ListTournaments returns active tournaments that have not ended, with
// participant counts and whether the given user already joined
func (p *Postgres) ListTournaments(ctx context.Context, userID string) ([]Tournament, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT t.id, t.name, t.description, t.start_date, t.end_date,
		       COUNT(tp.user_id), t.max_participants, t.prize_pool,
		       BOOL_OR(tp.user_id = $1)
		FROM tournaments t
		LEFT JOIN tournament_participants tp ON t.id = tp.tournament_id
		WHERE t.is_active AND t.end_date > NOW()
		GROUP BY t.id
		ORDER BY t.start_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tournament
	for rows.Next() {
		var t Tournament
		var joined *bool // NULL when the tournament has no participants
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.StartDate, &t.EndDate,
			&t.Participants, &t.MaxParticipants, &t.PrizePool, &joined); err != nil {
			return nil, err
		}
		t.Joined = joined != nil && *joined
		out = append(out, t)
	}
	return out, rows.Err()
}

// JoinTournament enrols the user; joining twice is a no-op
func (p *Postgres) JoinTournament(ctx context.Context, tournamentID int64, userID string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO tournament_participants (tournament_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, tournamentID, userID)
	return err
}
