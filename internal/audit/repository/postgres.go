package repository

import (
	"context"
	"database/sql"

	"courier/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, user_id, action, resource, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.UserID, entry.Action, entry.Resource, entry.IP, entry.Metadata, entry.CreatedAt,
	)
	return err
}
