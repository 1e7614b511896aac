// Package handler exposes the message listings and sending over HTTP. Every
// endpoint requires an authenticated session.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"courier/backend/internal/message/domain"
	"courier/backend/internal/message/service"
	"courier/backend/internal/server/httpx"
	"courier/backend/internal/server/middleware"
)

// Handler serves /messages.
type Handler struct {
	messages *service.MessageService
}

// NewHandler returns the message HTTP handler.
func NewHandler(messages *service.MessageService) *Handler {
	return &Handler{messages: messages}
}

// Routes mounts the message endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.all)
	r.Get("/sent", h.sent)
	r.Get("/received", h.received)
	r.Get("/conversations/{user}", h.conversation)
	r.Post("/", h.send)
	return r
}

type messageView struct {
	ID      int64  `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Content string `json:"content"`
}

func respondMessages(w http.ResponseWriter, msgs []*domain.Message) {
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageView{ID: m.ID, From: m.Sender, To: m.Recipient, Content: m.Content})
	}
	httpx.RespondJSON(w, http.StatusOK, map[string][]messageView{"messages": out})
}

func (h *Handler) listWith(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, userID string) ([]*domain.Message, error)) {

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	msgs, err := list(r.Context(), userID)
	if err != nil {
		log.Printf("message: list: %v", err)
		httpx.Internal(w)
		return
	}
	respondMessages(w, msgs)
}

func (h *Handler) all(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, h.messages.All)
}

func (h *Handler) sent(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, h.messages.Sent)
}

func (h *Handler) received(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, h.messages.Received)
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) {
	other := chi.URLParam(r, "user")
	// A malformed id matches no user, so the conversation is empty rather
	// than a database type error.
	if _, err := uuid.Parse(other); err != nil {
		if _, ok := middleware.UserID(r.Context()); !ok {
			httpx.Unauthorized(w)
			return
		}
		respondMessages(w, nil)
		return
	}
	h.listWith(w, r, func(ctx context.Context, userID string) ([]*domain.Message, error) {
		return h.messages.Conversation(ctx, userID, other)
	})
}

type sendRequest struct {
	Addressee string `json:"addressee"`
	Message   string `json:"message"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}

	var req sendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Addressee == "" || req.Message == "" {
		httpx.RespondError(w, http.StatusBadRequest, httpx.CodeBadRequest,
			"Either the message or the addressee, or both, are missing.")
		return
	}

	// Reject malformed ids before they reach the uuid-typed column.
	if _, err := uuid.Parse(req.Addressee); err != nil {
		httpx.RespondError(w, http.StatusNotFound, httpx.CodeAddresseeNotFound,
			"The specified addressee does not exist.")
		return
	}

	err := h.messages.Send(r.Context(), userID, req.Addressee, req.Message, middleware.ClientAddr(r))
	if errors.Is(err, service.ErrAddresseeNotFound) {
		httpx.RespondError(w, http.StatusNotFound, httpx.CodeAddresseeNotFound,
			"The specified addressee does not exist.")
		return
	}
	if err != nil {
		log.Printf("message: send: %v", err)
		httpx.Internal(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
