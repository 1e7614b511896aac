package repository

import (
	"context"
	"database/sql"
	"errors"

	"courier/backend/internal/keyexchange/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a DH parameter repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the persisted parameters, or nil if the dh_config table is empty.
// It returns an error only for database failures, not for the missing row.
func (r *PostgresRepository) Get(ctx context.Context) (*domain.Params, error) {
	var p domain.Params
	err := r.db.QueryRowContext(ctx,
		`SELECT prime, generator FROM dh_config WHERE singleton`,
	).Scan(&p.Prime, &p.Generator)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Set inserts params into the single-row dh_config table. ON CONFLICT DO NOTHING
// makes the insert conditional: if another instance won the generation race the
// existing row is kept and this call is a no-op.
func (r *PostgresRepository) Set(ctx context.Context, params *domain.Params) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dh_config (singleton, prime, generator) VALUES (TRUE, $1, $2)
		 ON CONFLICT (singleton) DO NOTHING`,
		params.Prime, params.Generator,
	)
	return err
}
