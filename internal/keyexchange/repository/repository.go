package repository

import (
	"context"

	"courier/backend/internal/keyexchange/domain"
)

// Repository defines persistence for the singleton Diffie-Hellman domain parameters.
type Repository interface {
	// Get returns the persisted parameters, or nil if none have been generated yet.
	Get(ctx context.Context) (*domain.Params, error)
	// Set persists params if and only if no parameters exist yet. Losing a
	// concurrent race is not an error; the first writer wins.
	Set(ctx context.Context, params *domain.Params) error
}
