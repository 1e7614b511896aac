// Package service implements login and logout on top of the session manager
// and the credential hasher.
package service

import (
	"context"
	"errors"
	"time"

	"courier/backend/internal/audit"
	"courier/backend/internal/security"
	sessionservice "courier/backend/internal/session/service"
	userdomain "courier/backend/internal/user/domain"
)

// ErrInvalidCredentials is returned for an unknown username and for a wrong
// password alike, so a caller cannot enumerate usernames.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
}

// LoginResult holds the outcome of a successful login.
type LoginResult struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// AuthService authenticates credentials and manages the resulting sessions.
type AuthService struct {
	users    UserRepo
	sessions *sessionservice.Manager
	hasher   *security.Hasher
	audit    audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLogger may be nil to disable audit events.
func NewAuthService(users UserRepo, sessions *sessionservice.Manager, hasher *security.Hasher, auditLogger audit.AuditLogger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		audit:    auditLogger,
	}
}

// Login verifies the credentials and mints a session bound to remoteAddr.
// Returns ErrInvalidCredentials on unknown user or wrong password; any other
// error is a storage failure.
func (s *AuthService) Login(ctx context.Context, username, password, remoteAddr string, extended bool) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logEvent(ctx, "", "login_failure", "session", remoteAddr, username)
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.logEvent(ctx, user.ID, "login_failure", "session", remoteAddr, "")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.sessions.Create(ctx, user.ID, remoteAddr, extended)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, user.ID, "login_success", "session", remoteAddr, "")

	return &LoginResult{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the session bound to (token, remoteAddr). Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID, token, remoteAddr string) error {
	if err := s.sessions.Delete(ctx, token, remoteAddr); err != nil {
		return err
	}
	s.logEvent(ctx, userID, "logout", "session", remoteAddr, "")
	return nil
}

func (s *AuthService) logEvent(ctx context.Context, userID, action, resource, ip, metadata string) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, userID, action, resource, ip, metadata)
	}
}
