package repository

import (
	"context"

	"courier/backend/internal/message/domain"
)

// Repository defines persistence for messages. All listings are ordered by id.
type Repository interface {
	// Create persists the message and fills in its assigned ID.
	Create(ctx context.Context, m *domain.Message) error
	// ListByUser returns every message sent by or addressed to userID.
	ListByUser(ctx context.Context, userID string) ([]*domain.Message, error)
	ListBySender(ctx context.Context, userID string) ([]*domain.Message, error)
	ListByRecipient(ctx context.Context, userID string) ([]*domain.Message, error)
	// Conversation returns the messages exchanged between the two users, in
	// both directions.
	Conversation(ctx context.Context, userID, otherID string) ([]*domain.Message, error)
}
