package repository

import (
	"context"
	"time"

	"courier/backend/internal/session/domain"
)

// Repository defines persistence for sessions. Rows are always addressed by
// (token, remote address) so the IP binding is enforced at the storage layer.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// GetByTokenAndAddr returns the session for the pair, or nil if no row matches.
	GetByTokenAndAddr(ctx context.Context, token, remoteAddr string) (*domain.Session, error)
	UpdateRefreshedAt(ctx context.Context, token, remoteAddr string, at time.Time) error
	// Delete removes the session. Deleting a missing row is not an error.
	Delete(ctx context.Context, token, remoteAddr string) error
}
