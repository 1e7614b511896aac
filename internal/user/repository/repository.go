package repository

import (
	"context"

	"courier/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	// GetByID returns the user for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByUsername returns the user for username, or nil if not found.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*domain.User, error)
}
