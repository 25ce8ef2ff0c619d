package store

import (
	"context"
)

// CreatePod inserts a pod and enrols the creator as its admin member
func (p *Postgres) CreatePod(ctx context.Context, name, description, subject, creatorID string, maxMembers int) (int64, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var podID int64
	row := tx.QueryRow(ctx, `
		INSERT INTO learning_pods (name, description, subject, creator_id, max_members)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, name, description, subject, creatorID, maxMembers)
	if err := row.Scan(&podID); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO pod_members (pod_id, user_id, role)
		VALUES ($1, $2, 'admin')
	`, podID, creatorID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return podID, nil
}

// ListPods returns active pods newest-first with creator name + member count
func (p *Postgres) ListPods(ctx context.Context, limit int) ([]Pod, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT lp.id, lp.name, lp.description, lp.subject, lp.creator_id, u.username,
		       lp.max_members, COUNT(pm.user_id), lp.created_at
		FROM learning_pods lp
		JOIN users u ON lp.creator_id = u.id
		LEFT JOIN pod_members pm ON lp.id = pm.pod_id
		WHERE lp.is_active
		GROUP BY lp.id, u.username
		ORDER BY lp.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pod
	for rows.Next() {
		var pd Pod
		if err := rows.Scan(&pd.ID, &pd.Name, &pd.Description, &pd.Subject, &pd.CreatorID,
			&pd.CreatorName, &pd.MaxMembers, &pd.MemberCount, &pd.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pd)
	}
	return out, rows.Err()
}

// IsPodMember reports whether the user holds a durable membership row
func (p *Postgres) IsPodMember(ctx context.Context, podID int64, userID string) (bool, error) {
	var n int
	row := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM pod_members WHERE pod_id = $1 AND user_id = $2
	`, podID, userID)
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SavePodMessage persists a chat message
func (p *Postgres) SavePodMessage(ctx context.Context, podID int64, userID, text string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO pod_messages (pod_id, user_id, message)
		VALUES ($1, $2, $3)
	`, podID, userID, text)
	return err
}

// ListPodMessages returns recent history oldest-first
func (p *Postgres) ListPodMessages(ctx context.Context, podID int64, limit int) ([]PodMessage, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT m.id, m.pod_id, m.user_id, u.username, m.message, m.sent_at
		FROM pod_messages m
		JOIN users u ON m.user_id = u.id
		WHERE m.pod_id = $1
		ORDER BY m.sent_at DESC
		LIMIT $2
	`, podID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PodMessage
	for rows.Next() {
		var m PodMessage
		if err := rows.Scan(&m.ID, &m.PodID, &m.UserID, &m.Username, &m.Message, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	// reverse into chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}
