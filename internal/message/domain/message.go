package domain

import "time"

// Message is a single message between two users. IDs are monotonically
// increasing, so ordering by ID is chronological.
type Message struct {
	ID        int64
	Sender    string
	Recipient string
	Content   string
	CreatedAt time.Time
}
