package store

import "context"

// CreateHelpTicket files a support ticket and returns its id
func (p *Postgres) CreateHelpTicket(ctx context.Context, userID, subject, category, priority, description string) (int64, error) {
	var id int64
	row := p.pool.QueryRow(ctx, `
		INSERT INTO help_tickets (user_id, subject, category, priority, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, userID, subject, category, priority, description)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// LogAIChat records one tutor exchange for auditing
func (p *Postgres) LogAIChat(ctx context.Context, userID, provider, message, response string, responseMS int) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO ai_chat_logs (user_id, provider, message, response, response_ms)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, provider, message, response, responseMS)
	return err
}
