package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// RandomQuestions picks count questions, optionally filtered by subject and
// difficulty, and bumps their usage counters
func (p *Postgres) RandomQuestions(ctx context.Context, subject string, difficulty, count int) ([]Question, error) {
	q := `SELECT id, subject, difficulty, qtype, question, options, hint FROM questions`
	var args []any
	var conds []string
	if subject != "" && subject != "mixed" {
		args = append(args, subject)
		conds = append(conds, fmt.Sprintf("subject = $%d", len(args)))
	}
	if difficulty > 0 {
		args = append(args, difficulty)
		conds = append(conds, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, count)
	q += fmt.Sprintf(" ORDER BY RANDOM() LIMIT $%d", len(args))

	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	var ids []int64
	for rows.Next() {
		var qn Question
		if err := rows.Scan(&qn.ID, &qn.Subject, &qn.Difficulty, &qn.Type, &qn.Question, &qn.Options, &qn.Hint); err != nil {
			return nil, err
		}
		out = append(out, qn)
		ids = append(ids, qn.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		if _, err := p.pool.Exec(ctx, `
			UPDATE questions SET usage_count = usage_count + 1 WHERE id = ANY($1)
		`, ids); err != nil {
			return nil, err
		}
	}
	return out, nil
}

var ErrQuestionNotFound = errors.New("question not found")

// GetQuestionAnswer returns the correct answer + explanation for validation
func (p *Postgres) GetQuestionAnswer(ctx context.Context, id int64) (answer, explanation string, err error) {
	row := p.pool.QueryRow(ctx, `
		SELECT correct_answer, explanation FROM questions WHERE id = $1
	`, id)
	if err := row.Scan(&answer, &explanation); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrQuestionNotFound
		}
		return "", "", err
	}
	return answer, explanation, nil
}

// RecordAnswer folds one result into the question's running success rate
func (p *Postgres) RecordAnswer(ctx context.Context, id int64, correct bool) error {
	v := 0
	if correct {
		v = 1
	}
	_, err := p.pool.Exec(ctx, `
		UPDATE questions
		SET success_rate = (success_rate * usage_count + $2) / (usage_count + 1)
		WHERE id = $1
	`, id, v)
	return err
}
