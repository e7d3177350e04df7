package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donutsmp/database"
	"donutsmp/models"
	"donutsmp/session"

	"github.com/jackc/pgx/v5"
)

// SessionRepository stores login sessions in Postgres. Only a hash of the
// cookie token is persisted.
type SessionRepository struct {
	q queryable
}

// NewSessionRepository creates a Postgres-backed session store
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{q: db.Pool}
}

var _ session.Store = (*SessionRepository)(nil)

// Save inserts or replaces a session
func (r *SessionRepository) Save(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, display_name, balance_snapshot, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (token_hash) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    balance_snapshot = EXCLUDED.balance_snapshot,
		    expires_at = EXCLUDED.expires_at
	`

	_, err := r.q.Exec(ctx, query,
		session.HashToken(s.Token),
		s.UserID,
		s.DisplayName,
		s.BalanceSnapshot,
		s.CreatedAt,
		s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session for user %d: %w", s.UserID, err)
	}
	return nil
}

// Get returns the session for token, or nil if there is none
func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT user_id, display_name, balance_snapshot, created_at, expires_at
		FROM sessions
		WHERE token_hash = $1
	`

	s := models.Session{Token: token}
	err := r.q.QueryRow(ctx, query, session.HashToken(token)).Scan(
		&s.UserID,
		&s.DisplayName,
		&s.BalanceSnapshot,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, session.HashToken(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session that expired at or before now
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
