package domain

import "time"

// User is an account addressable by username. The session layer treats the ID
// as opaque.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	// PublicKey is the password-derived Diffie-Hellman public key, computed
	// and stored at registration so clients can fetch each other's keys.
	PublicKey string
	CreatedAt time.Time
}
