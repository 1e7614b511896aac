package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"courier/backend/internal/message/domain"
	userdomain "courier/backend/internal/user/domain"
)

type memMessageRepo struct {
	mu       sync.Mutex
	nextID   int64
	messages []*domain.Message
	err      error
}

func (r *memMessageRepo) Create(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *memMessageRepo) filter(keep func(*domain.Message) bool) []*domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.messages {
		if keep(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out
}

func (r *memMessageRepo) ListByUser(_ context.Context, userID string) ([]*domain.Message, error) {
	return r.filter(func(m *domain.Message) bool {
		return m.Sender == userID || m.Recipient == userID
	}), nil
}

func (r *memMessageRepo) ListBySender(_ context.Context, userID string) ([]*domain.Message, error) {
	return r.filter(func(m *domain.Message) bool { return m.Sender == userID }), nil
}

func (r *memMessageRepo) ListByRecipient(_ context.Context, userID string) ([]*domain.Message, error) {
	return r.filter(func(m *domain.Message) bool { return m.Recipient == userID }), nil
}

func (r *memMessageRepo) Conversation(_ context.Context, userID, otherID string) ([]*domain.Message, error) {
	return r.filter(func(m *domain.Message) bool {
		return (m.Sender == userID && m.Recipient == otherID) ||
			(m.Sender == otherID && m.Recipient == userID)
	}), nil
}

type memUserDirectory struct {
	ids map[string]bool
}

func (d *memUserDirectory) GetByID(_ context.Context, id string) (*userdomain.User, error) {
	if !d.ids[id] {
		return nil, nil
	}
	return &userdomain.User{ID: id}, nil
}

func newTestMessageService(ids ...string) (*MessageService, *memMessageRepo) {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	repo := &memMessageRepo{}
	return NewMessageService(repo, &memUserDirectory{ids: known}, nil), repo
}

func TestSend_StoresMessage(t *testing.T) {
	svc, repo := newTestMessageService("alice", "bob")

	if err := svc.Send(context.Background(), "alice", "bob", "Hello!", "203.0.113.7"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.messages) != 1 {
		t.Fatalf("stored %d messages, want 1", len(repo.messages))
	}
	m := repo.messages[0]
	if m.ID == 0 {
		t.Fatal("message id not assigned")
	}
	if m.Sender != "alice" || m.Recipient != "bob" || m.Content != "Hello!" {
		t.Fatalf("stored message = %+v", m)
	}
	if m.CreatedAt.IsZero() || time.Since(m.CreatedAt) > time.Minute {
		t.Fatalf("suspicious CreatedAt %v", m.CreatedAt)
	}
}

func TestSend_UnknownAddressee(t *testing.T) {
	svc, repo := newTestMessageService("alice")

	err := svc.Send(context.Background(), "alice", "nobody", "Hello!", "203.0.113.7")
	if !errors.Is(err, ErrAddresseeNotFound) {
		t.Fatalf("err = %v, want ErrAddresseeNotFound", err)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.messages) != 0 {
		t.Fatalf("message stored despite unknown addressee")
	}
}

func TestSend_StorageErrorPropagates(t *testing.T) {
	svc, repo := newTestMessageService("alice", "bob")
	repo.err = errors.New("connection refused")

	err := svc.Send(context.Background(), "alice", "bob", "Hello!", "203.0.113.7")
	if err == nil || errors.Is(err, ErrAddresseeNotFound) {
		t.Fatalf("err = %v, want a storage error", err)
	}
}

func TestListings(t *testing.T) {
	svc, _ := newTestMessageService("alice", "bob", "carol")
	ctx := context.Background()

	send := func(from, to, content string) {
		t.Helper()
		if err := svc.Send(ctx, from, to, content, "203.0.113.7"); err != nil {
			t.Fatalf("Send %s->%s: %v", from, to, err)
		}
	}
	send("alice", "bob", "one")
	send("bob", "alice", "two")
	send("alice", "carol", "three")
	send("carol", "bob", "four")

	all, err := svc.All(ctx, "alice")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("All(alice) = %d messages, want 3", len(all))
	}

	sent, err := svc.Sent(ctx, "alice")
	if err != nil {
		t.Fatalf("Sent: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("Sent(alice) = %d messages, want 2", len(sent))
	}

	received, err := svc.Received(ctx, "alice")
	if err != nil {
		t.Fatalf("Received: %v", err)
	}
	if len(received) != 1 || received[0].Content != "two" {
		t.Fatalf("Received(alice) = %+v, want only %q", received, "two")
	}

	conv, err := svc.Conversation(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("Conversation: %v", err)
	}
	if len(conv) != 2 {
		t.Fatalf("Conversation(alice,bob) = %d messages, want 2", len(conv))
	}
	for _, m := range conv {
		pair := m.Sender + "->" + m.Recipient
		if pair != "alice->bob" && pair != "bob->alice" {
			t.Fatalf("conversation leaked message %s", pair)
		}
	}
}
