package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"courier/backend/internal/security"
	"courier/backend/internal/session/domain"
	sessionservice "courier/backend/internal/session/service"
)

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	getErr   error
	updErr   error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*domain.Session)}
}

func key(token, addr string) string { return token + "|" + addr }

func (r *memSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[key(s.Token, s.RemoteAddr)] = &cp
	return nil
}

func (r *memSessionRepo) GetByTokenAndAddr(_ context.Context, token, addr string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.sessions[key(token, addr)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) UpdateRefreshedAt(_ context.Context, token, addr string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updErr != nil {
		return r.updErr
	}
	if s, ok := r.sessions[key(token, addr)]; ok {
		s.RefreshedAt = at
	}
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, token, addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key(token, addr))
	return nil
}

func newTestSessions(t *testing.T) (*sessionservice.Manager, *memSessionRepo) {
	t.Helper()
	codec, err := security.NewCodec("base64")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	repo := newMemSessionRepo()
	return sessionservice.NewManager(repo, codec, time.Hour, 30*24*time.Hour), repo
}

// echoHandler records the authenticated user id seen by the handler.
func echoHandler(gotUser *string, gotOK *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUser, *gotOK = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_NoTokenPassesThroughAnonymous(t *testing.T) {
	sessions, _ := newTestSessions(t)

	var user string
	var ok bool
	h := Authenticate(sessions)(echoHandler(&user, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4455"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ok {
		t.Fatalf("request without token authenticated as %q", user)
	}
	if rec.Header().Get(SessionValidUntilHeader) != "" {
		t.Fatalf("anonymous response carries %s header", SessionValidUntilHeader)
	}
}

func TestAuthenticate_ValidTokenAnnotatesAndRefreshes(t *testing.T) {
	sessions, _ := newTestSessions(t)
	token, _, err := sessions.Create(context.Background(), "user-1", "203.0.113.7", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var user string
	var ok bool
	h := Authenticate(sessions)(echoHandler(&user, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4455"
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()

	before := time.Now().Add(time.Hour).Unix()
	h.ServeHTTP(rec, req)
	after := time.Now().Add(time.Hour).Unix()

	if !ok || user != "user-1" {
		t.Fatalf("UserID = (%q, %v), want (user-1, true)", user, ok)
	}
	raw := rec.Header().Get(SessionValidUntilHeader)
	if raw == "" {
		t.Fatalf("missing %s header", SessionValidUntilHeader)
	}
	until, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		t.Fatalf("parse %s: %v", SessionValidUntilHeader, err)
	}
	if until < before || until > after {
		t.Fatalf("%s = %d, want within [%d, %d]", SessionValidUntilHeader, until, before, after)
	}
}

func TestAuthenticate_TokenFromDifferentAddrIsAnonymous(t *testing.T) {
	sessions, _ := newTestSessions(t)
	token, _, err := sessions.Create(context.Background(), "user-1", "203.0.113.7", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var user string
	var ok bool
	h := Authenticate(sessions)(echoHandler(&user, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.9:4455"
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ok {
		t.Fatalf("token minted for another address authenticated as %q", user)
	}
}

func TestAuthenticate_UnknownTokenIsAnonymous(t *testing.T) {
	sessions, _ := newTestSessions(t)

	var user string
	var ok bool
	h := Authenticate(sessions)(echoHandler(&user, &ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4455"
	req.Header.Set(TokenHeader, "no-such-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ok {
		t.Fatal("unknown token authenticated the request")
	}
}

func TestAuthenticate_ValidateStorageFailureIs500(t *testing.T) {
	sessions, repo := newTestSessions(t)
	repo.getErr = errors.New("connection refused")

	handlerCalled := false
	h := Authenticate(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4455"
	req.Header.Set(TokenHeader, "some-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if handlerCalled {
		t.Fatal("handler ran despite storage failure during validation")
	}
	if rec.Header().Get(SessionValidUntilHeader) != "" {
		t.Fatalf("failed request carries %s header", SessionValidUntilHeader)
	}
}

func TestAuthenticate_RefreshStorageFailureIs500(t *testing.T) {
	sessions, repo := newTestSessions(t)
	token, _, err := sessions.Create(context.Background(), "user-1", "203.0.113.7", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	repo.updErr = errors.New("connection refused")

	handlerCalled := false
	h := Authenticate(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4455"
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if handlerCalled {
		t.Fatal("handler ran despite storage failure during refresh")
	}
	if rec.Header().Get(SessionValidUntilHeader) != "" {
		t.Fatalf("failed request carries %s header", SessionValidUntilHeader)
	}
}

func TestClientAddr(t *testing.T) {
	cases := []struct {
		remoteAddr string
		want       string
	}{
		{"203.0.113.7:4455", "203.0.113.7"},
		{"203.0.113.7", "203.0.113.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = c.remoteAddr
		if got := ClientAddr(req); got != c.want {
			t.Errorf("ClientAddr(%q) = %q, want %q", c.remoteAddr, got, c.want)
		}
	}
}
