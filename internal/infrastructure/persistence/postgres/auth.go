package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tasktrack/platform/internal/domain"
)

func (s *AuthStore) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)`
	_, err := s.db.Exec(ctx, q, u.ID, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, &domain.ConflictError{Entity: "user", Value: u.Email}
		}
		return domain.User{}, fmt.Errorf("postgres: create user: %w", err)
	}
	return u, nil
}

func (s *AuthStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`
	return scanUser(s.db.QueryRow(ctx, q, email), email)
}

func (s *AuthStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, q, id), id)
}

// PutSession upserts the caller's one active session row: delete whatever
// session previously existed for the user, then insert the fresh one, so
// login/signup never accumulate one row per login.
func (s *AuthStore) PutSession(ctx context.Context, sess domain.Session) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, sess.UserID); err != nil {
		return fmt.Errorf("postgres: clear prior sessions: %w", err)
	}
	const q = `
		INSERT INTO sessions (id, user_id, issued_at, expires_at, revoked_at, user_agent)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := s.db.Exec(ctx, q, sess.ID, sess.UserID, sess.IssuedAt, sess.ExpiresAt, sess.RevokedAt, sess.UserAgent)
	if err != nil {
		return fmt.Errorf("postgres: put session: %w", err)
	}
	return nil
}

func (s *AuthStore) DeleteSessionsForUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("postgres: delete sessions for user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row, lookupKey string) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, &domain.NotFoundError{Entity: "user", ID: lookupKey}
		}
		return domain.User{}, fmt.Errorf("postgres: scan user: %w", err)
	}
	return u, nil
}
