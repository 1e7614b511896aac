// Package service implements the session state machine: issuing, validating,
// refreshing, and revoking IP-bound bearer tokens with a rolling expiry.
package service

import (
	"context"
	"log"
	"time"

	"courier/backend/internal/security"
	"courier/backend/internal/session/domain"
	"courier/backend/internal/session/repository"
)

// ValidSession is the handle returned by a successful Validate. It is the only
// input Refresh accepts, so a session can never be refreshed without having
// been validated first.
type ValidSession struct {
	token      string
	remoteAddr string
	userID     string
	extended   bool
}

// UserID returns the authenticated user's id.
func (v *ValidSession) UserID() string { return v.userID }

// Token returns the session token the handle was validated from.
func (v *ValidSession) Token() string { return v.token }

// Manager issues, validates, refreshes, and revokes sessions. All state lives
// in the repository; the Manager itself is stateless and safe for concurrent use.
type Manager struct {
	repo        repository.Repository
	codec       security.Codec
	standardTTL time.Duration
	extendedTTL time.Duration
	nowFn       func() time.Time
}

// NewManager returns a Manager with the two configured expiry windows.
func NewManager(repo repository.Repository, codec security.Codec, standardTTL, extendedTTL time.Duration) *Manager {
	return &Manager{
		repo:        repo,
		codec:       codec,
		standardTTL: standardTTL,
		extendedTTL: extendedTTL,
		nowFn:       time.Now,
	}
}

func (m *Manager) ttl(extended bool) time.Duration {
	if extended {
		return m.extendedTTL
	}
	return m.standardTTL
}

// Create mints a random token, persists the session bound to remoteAddr, and
// returns the token with its absolute expiry.
func (m *Manager) Create(ctx context.Context, userID, remoteAddr string, extended bool) (string, time.Time, error) {
	token, err := security.NewSessionToken(m.codec)
	if err != nil {
		return "", time.Time{}, err
	}
	s := &domain.Session{
		Token:       token,
		UserID:      userID,
		RemoteAddr:  remoteAddr,
		RefreshedAt: m.nowFn(),
		Extended:    extended,
	}
	if err := m.repo.Create(ctx, s); err != nil {
		return "", time.Time{}, err
	}
	return token, s.ExpiresAt(m.standardTTL, m.extendedTTL), nil
}

// Validate looks up the session bound to (token, remoteAddr). It returns
// (nil, nil) when no matching session exists or the session has expired; an
// expired row is deleted on first sight. A non-nil error always means a
// storage failure, never "unauthenticated".
//
// The expiry boundary is strict: a session observed exactly at its expiry
// instant is already expired.
func (m *Manager) Validate(ctx context.Context, token, remoteAddr string) (*ValidSession, error) {
	s, err := m.repo.GetByTokenAndAddr(ctx, token, remoteAddr)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	if !m.nowFn().Before(s.ExpiresAt(m.standardTTL, m.extendedTTL)) {
		// Fire-and-forget cleanup: the answer is "expired" regardless, and a
		// concurrent validation may already have removed the row.
		if err := m.repo.Delete(ctx, token, remoteAddr); err != nil {
			log.Printf("session: failed to delete expired session: %v", err)
		}
		return nil, nil
	}
	return &ValidSession{
		token:      s.Token,
		remoteAddr: s.RemoteAddr,
		userID:     s.UserID,
		extended:   s.Extended,
	}, nil
}

// Refresh bumps the validated session's timestamp to now and returns the new
// absolute expiry. The window slides: the new expiry is now plus the session's
// own window, regardless of how much time remained.
func (m *Manager) Refresh(ctx context.Context, vs *ValidSession) (time.Time, error) {
	now := m.nowFn()
	if err := m.repo.UpdateRefreshedAt(ctx, vs.token, vs.remoteAddr, now); err != nil {
		return time.Time{}, err
	}
	return now.Add(m.ttl(vs.extended)), nil
}

// Delete revokes the session bound to (token, remoteAddr). Idempotent:
// deleting a token that does not exist is not an error.
func (m *Manager) Delete(ctx context.Context, token, remoteAddr string) error {
	return m.repo.Delete(ctx, token, remoteAddr)
}
