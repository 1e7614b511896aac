package domain

import "time"

// AuditLog is one auth-surface event: a login, logout, registration, or sent
// message, with the acting user and client address.
type AuditLog struct {
	ID        string
	UserID    string // empty for anonymous events such as failed logins
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
