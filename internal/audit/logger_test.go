package audit

import (
	"context"
	"errors"
	"testing"

	"courier/backend/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo)
	ctx := context.Background()

	logger.LogEvent(ctx, "user-1", "login_success", "session", "203.0.113.7", "meta")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.UserID != "user-1" {
		t.Errorf("user_id = %q, want %q", entry.UserID, "user-1")
	}
	if entry.Action != "login_success" {
		t.Errorf("action = %q, want %q", entry.Action, "login_success")
	}
	if entry.Resource != "session" {
		t.Errorf("resource = %q, want %q", entry.Resource, "session")
	}
	if entry.IP != "203.0.113.7" {
		t.Errorf("ip = %q, want %q", entry.IP, "203.0.113.7")
	}
	if entry.Metadata != "meta" {
		t.Errorf("metadata = %q, want %q", entry.Metadata, "meta")
	}
	if entry.ID == "" {
		t.Error("entry ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry CreatedAt should be set")
	}
}

func TestLogger_LogEvent_AnonymousEvent(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo)

	logger.LogEvent(context.Background(), "", "login_failure", "session", "203.0.113.7", "alice")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].UserID != "" {
		t.Errorf("user_id = %q, want empty for anonymous event", repo.entries[0].UserID)
	}
}

func TestLogger_LogEvent_RepositoryError(t *testing.T) {
	repo := &mockAuditRepo{
		createErr: errors.New("database error"),
	}
	logger := NewLogger(repo)

	// Best-effort logging: must not panic or surface the error.
	logger.LogEvent(context.Background(), "user-1", "logout", "session", "203.0.113.7", "")
}

func TestLogger_LogEvent_NilReceiverAndRepo(t *testing.T) {
	var logger *Logger
	logger.LogEvent(context.Background(), "user-1", "logout", "session", "", "")

	logger = NewLogger(nil)
	logger.LogEvent(context.Background(), "user-1", "logout", "session", "", "")
}
