// Package service implements account registration and listing.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"courier/backend/internal/audit"
	"courier/backend/internal/keyexchange"
	"courier/backend/internal/security"
	"courier/backend/internal/user/domain"
	"courier/backend/internal/user/repository"
)

// ErrUsernameTaken is returned when registering a username that already exists.
var ErrUsernameTaken = errors.New("username already taken")

// UserService creates and lists accounts. Registration hashes the password for
// authentication and derives the deterministic key-exchange public key from it.
type UserService struct {
	repo   repository.Repository
	hasher *security.Hasher
	codec  security.Codec
	audit  audit.AuditLogger
}

// NewUserService returns a UserService. auditLogger may be nil.
func NewUserService(repo repository.Repository, hasher *security.Hasher, codec security.Codec, auditLogger audit.AuditLogger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
		audit:  auditLogger,
	}
}

// Create registers a new account. Returns ErrUsernameTaken when the username
// is already in use.
func (s *UserService) Create(ctx context.Context, username, password, remoteAddr string) (*domain.User, error) {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	publicKey, err := keyexchange.PublicKeyFromPassword(password, s.codec)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		PublicKey:    publicKey,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, user.ID, "user_created", "user", remoteAddr, username)
	}
	return user, nil
}

// List returns all accounts ordered by creation time.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}
