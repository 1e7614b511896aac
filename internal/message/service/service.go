// Package service implements message delivery and the per-user listings.
package service

import (
	"context"
	"errors"
	"time"

	"courier/backend/internal/audit"
	"courier/backend/internal/message/domain"
	"courier/backend/internal/message/repository"
	userdomain "courier/backend/internal/user/domain"
)

// ErrAddresseeNotFound is returned when sending to a user id that does not exist.
var ErrAddresseeNotFound = errors.New("addressee not found")

// UserRepo is the minimal user repository needed to resolve addressees.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// MessageService stores messages and serves the sender/recipient listings.
type MessageService struct {
	repo  repository.Repository
	users UserRepo
	audit audit.AuditLogger
}

// NewMessageService returns a MessageService. auditLogger may be nil.
func NewMessageService(repo repository.Repository, users UserRepo, auditLogger audit.AuditLogger) *MessageService {
	return &MessageService{
		repo:  repo,
		users: users,
		audit: auditLogger,
	}
}

// Send stores a message from senderID to addresseeID. Returns
// ErrAddresseeNotFound when the addressee does not exist.
func (s *MessageService) Send(ctx context.Context, senderID, addresseeID, content, remoteAddr string) error {
	addressee, err := s.users.GetByID(ctx, addresseeID)
	if err != nil {
		return err
	}
	if addressee == nil {
		return ErrAddresseeNotFound
	}

	m := &domain.Message{
		Sender:    senderID,
		Recipient: addresseeID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, senderID, "message_sent", "message", remoteAddr, addresseeID)
	}
	return nil
}

// All returns every message sent by or addressed to userID, ordered by id.
func (s *MessageService) All(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Sent returns the messages sent by userID.
func (s *MessageService) Sent(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.repo.ListBySender(ctx, userID)
}

// Received returns the messages addressed to userID.
func (s *MessageService) Received(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.repo.ListByRecipient(ctx, userID)
}

// Conversation returns the messages exchanged between userID and otherID.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	return s.repo.Conversation(ctx, userID, otherID)
}
