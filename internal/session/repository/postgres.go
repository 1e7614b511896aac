package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"courier/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the session. The session must have Token set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, remote_addr, refreshed_at, extended)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.Token, s.UserID, s.RemoteAddr, s.RefreshedAt, s.Extended,
	)
	return err
}

// GetByTokenAndAddr returns the session for (token, remoteAddr), or nil if no
// row matches. It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByTokenAndAddr(ctx context.Context, token, remoteAddr string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, remote_addr, refreshed_at, extended
		 FROM sessions WHERE token = $1 AND remote_addr = $2`,
		token, remoteAddr,
	).Scan(&s.Token, &s.UserID, &s.RemoteAddr, &s.RefreshedAt, &s.Extended)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpdateRefreshedAt sets the session's refreshed_at timestamp.
func (r *PostgresRepository) UpdateRefreshedAt(ctx context.Context, token, remoteAddr string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET refreshed_at = $3 WHERE token = $1 AND remote_addr = $2`,
		token, remoteAddr, at,
	)
	return err
}

// Delete removes the session for (token, remoteAddr). Idempotent: deleting a
// row that no longer exists succeeds, so concurrent expiry cleanups never fail.
func (r *PostgresRepository) Delete(ctx context.Context, token, remoteAddr string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = $1 AND remote_addr = $2`,
		token, remoteAddr,
	)
	return err
}
