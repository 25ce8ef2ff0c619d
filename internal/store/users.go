package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// normEmail trims and lowercases the email (needed if DB col isnt citext)
func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// CreateUser inserts a new user with a hashed password plus a profile row
func (p *Postgres) CreateUser(ctx context.Context, email, username, password string) (User, error) {
	email = normEmail(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return User{}, errors.New("missing email, username or password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, username, role, created_at
	`, email, username, string(hash))

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Role, &u.CreatedAt); err != nil {
		return User{}, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_profiles (user_id, display_name)
		VALUES ($1, $2)
	`, u.ID, username); err != nil {
		return User{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUserByEmail returns the user + hashed password for login verification
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (User, string, error) {
	email = normEmail(email)

	row := p.pool.QueryRow(ctx, `
		SELECT id, email, username, role, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)

	var u User
	var hash string
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Role, &hash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, "", errors.New("not found")
		}
		return User{}, "", err
	}
	return u, hash, nil
}

// VerifyUser checks email + password match
func (p *Postgres) VerifyUser(ctx context.Context, email, password string) (User, error) {
	u, hash, err := p.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, errors.New("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, errors.New("invalid credentials")
	}

	return u, nil
}

// GetProfile fetches the gamification profile for a user
func (p *Postgres) GetProfile(ctx context.Context, userID string) (Profile, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT user_id, display_name, level, xp, credits, streak, last_activity
		FROM user_profiles
		WHERE user_id = $1
	`, userID)

	var pr Profile
	if err := row.Scan(&pr.UserID, &pr.DisplayName, &pr.Level, &pr.XP, &pr.Credits, &pr.Streak, &pr.LastActivity); err != nil {
		return Profile{}, err
	}
	return pr, nil
}

// AddXP credits xp to a profile and returns the updated totals.
// Level is derived as xp/100 + 1; levelUp reports whether it changed.
func (p *Postgres) AddXP(ctx context.Context, userID string, xp int) (newXP, newLevel int, levelUp bool, err error) {
	row := p.pool.QueryRow(ctx, `
		UPDATE user_profiles
		SET xp = xp + $2, last_activity = NOW()
		WHERE user_id = $1
		RETURNING xp, level
	`, userID, xp)

	var level int
	if err = row.Scan(&newXP, &level); err != nil {
		return 0, 0, false, err
	}

	newLevel = newXP/100 + 1
	if newLevel > level {
		if _, err = p.pool.Exec(ctx, `
			UPDATE user_profiles SET level = $2 WHERE user_id = $1
		`, userID, newLevel); err != nil {
			return 0, 0, false, err
		}
		return newXP, newLevel, true, nil
	}
	return newXP, level, false, nil
}
