package repository

import (
	"context"
	"database/sql"
	"errors"

	"courier/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `SELECT id, username, password_hash, public_key, created_at FROM users WHERE id = $1`, id)
}

// GetByUsername returns the user for username, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.get(ctx, `SELECT id, username, password_hash, public_key, created_at FROM users WHERE username = $1`, username)
}

func (r *PostgresRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.PublicKey, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create persists the user. The user must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, public_key, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.PasswordHash, u.PublicKey, u.CreatedAt,
	)
	return err
}

// List returns all users ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, password_hash, public_key, created_at FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.PublicKey, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}
