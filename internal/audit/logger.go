// Package audit records best-effort audit events for the auth surface.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"courier/backend/internal/audit/domain"
	auditrepo "courier/backend/internal/audit/repository"
)

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, ip, metadata string)
}

// Logger implements AuditLogger backed by the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns an AuditLogger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, ip, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}
