package security

import (
	"crypto/rand"
)

// TokenBytes is the entropy of a session token. 32 bytes keeps the collision
// probability negligible across any realistic number of sessions.
const TokenBytes = 32

// NewSessionToken returns a fresh random session token encoded with codec.
// Returns an error only if the system entropy source fails.
func NewSessionToken(codec Codec) (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return codec.EncodeToString(b), nil
}
