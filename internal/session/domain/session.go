package domain

import "time"

// Session is an opaque bearer session bound to the address it was issued to.
// A token replayed from a different address never matches.
type Session struct {
	Token      string
	UserID     string
	RemoteAddr string
	// RefreshedAt is the creation time, bumped on every successful
	// authenticated request. The expiry window always counts from here.
	RefreshedAt time.Time
	// Extended selects the longer expiry window. Set at creation, immutable.
	Extended bool
}

// ExpiresAt returns the absolute expiry for the given standard and extended windows.
func (s *Session) ExpiresAt(standard, extended time.Duration) time.Time {
	if s.Extended {
		return s.RefreshedAt.Add(extended)
	}
	return s.RefreshedAt.Add(standard)
}
