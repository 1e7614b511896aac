// Package handler exposes account listing and registration over HTTP.
package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"courier/backend/internal/server/httpx"
	"courier/backend/internal/server/middleware"
	"courier/backend/internal/user/service"
)

// Handler serves /users.
type Handler struct {
	users *service.UserService
}

// NewHandler returns the user HTTP handler.
func NewHandler(users *service.UserService) *Handler {
	return &Handler{users: users}
}

// Routes mounts the user endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	return r
}

type userSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		log.Printf("user: list: %v", err)
		httpx.Internal(w)
		return
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{ID: u.ID, Name: u.Username})
	}
	httpx.RespondJSON(w, http.StatusOK, map[string][]userSummary{"users": out})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		httpx.RespondError(w, http.StatusBadRequest, httpx.CodeBadRequest,
			"Either the username or the password, or both, are missing from the request body.")
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Password, middleware.ClientAddr(r))
	if errors.Is(err, service.ErrUsernameTaken) {
		httpx.RespondError(w, http.StatusUnprocessableEntity, httpx.CodeNameTaken,
			fmt.Sprintf("The specified username %s is already taken.", req.Username))
		return
	}
	if err != nil {
		log.Printf("user: create: %v", err)
		httpx.Internal(w)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, map[string]string{"id": user.ID})
}
