package repository

import (
	"context"

	"courier/backend/internal/audit/domain"
)

// Repository defines persistence for audit log entries.
type Repository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}
