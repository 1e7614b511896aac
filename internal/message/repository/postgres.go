package repository

import (
	"context"
	"database/sql"

	"courier/backend/internal/message/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a message repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the message and fills in its assigned ID.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Message) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO messages (sender, recipient, content, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		m.Sender, m.Recipient, m.Content, m.CreatedAt,
	).Scan(&m.ID)
}

// ListByUser returns every message sent by or addressed to userID, ordered by id.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	return r.list(ctx,
		`SELECT id, sender, recipient, content, created_at FROM messages
		 WHERE sender = $1 OR recipient = $1 ORDER BY id`,
		userID,
	)
}

// ListBySender returns the messages sent by userID, ordered by id.
func (r *PostgresRepository) ListBySender(ctx context.Context, userID string) ([]*domain.Message, error) {
	return r.list(ctx,
		`SELECT id, sender, recipient, content, created_at FROM messages
		 WHERE sender = $1 ORDER BY id`,
		userID,
	)
}

// ListByRecipient returns the messages addressed to userID, ordered by id.
func (r *PostgresRepository) ListByRecipient(ctx context.Context, userID string) ([]*domain.Message, error) {
	return r.list(ctx,
		`SELECT id, sender, recipient, content, created_at FROM messages
		 WHERE recipient = $1 ORDER BY id`,
		userID,
	)
}

// Conversation returns the messages exchanged between the two users, both
// directions, ordered by id.
func (r *PostgresRepository) Conversation(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	return r.list(ctx,
		`SELECT id, sender, recipient, content, created_at FROM messages
		 WHERE (sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1)
		 ORDER BY id`,
		userID, otherID,
	)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]*domain.Message, error) {
	var out []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
