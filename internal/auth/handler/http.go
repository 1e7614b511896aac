// Package handler exposes the auth surface over HTTP: the key-exchange prime,
// login, and logout.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"courier/backend/internal/auth/service"
	"courier/backend/internal/keyexchange"
	"courier/backend/internal/security"
	"courier/backend/internal/server/httpx"
	"courier/backend/internal/server/middleware"
)

// Handler serves /auth.
type Handler struct {
	auth   *service.AuthService
	params *keyexchange.Manager
	codec  security.Codec
}

// NewHandler returns the auth HTTP handler.
func NewHandler(auth *service.AuthService, params *keyexchange.Manager, codec security.Codec) *Handler {
	return &Handler{auth: auth, params: params, codec: codec}
}

// Routes mounts the auth endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/prime", h.prime)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	return r
}

// prime returns the shared key-exchange parameters, generating them on first
// request if startup did not.
func (h *Handler) prime(w http.ResponseWriter, r *http.Request) {
	params, err := h.params.Params(r.Context())
	if err != nil {
		log.Printf("auth: retrieving key-exchange parameters: %v", err)
		httpx.Internal(w)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, map[string]string{
		"prime":     h.codec.EncodeToString(params.Prime),
		"generator": h.codec.EncodeToString(params.Generator),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Extended bool   `json:"extended"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		httpx.RespondError(w, http.StatusBadRequest, httpx.CodeBadRequest,
			"Either the username or the password, or both, are missing from the request body.")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password, middleware.ClientAddr(r), req.Extended)
	if errors.Is(err, service.ErrInvalidCredentials) {
		httpx.RespondError(w, http.StatusUnauthorized, httpx.CodeWrongCredentials,
			"The entered username or password are incorrect.")
		return
	}
	if err != nil {
		log.Printf("auth: login: %v", err)
		httpx.Internal(w)
		return
	}

	w.Header().Set(middleware.SessionValidUntilHeader, strconv.FormatInt(result.ExpiresAt.Unix(), 10))
	httpx.RespondJSON(w, http.StatusOK, map[string]string{"token": result.Token})
}

// logout revokes the session the request authenticated with. Requires a valid
// session; anonymous callers get an empty 401.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}

	token := r.Header.Get(middleware.TokenHeader)
	if err := h.auth.Logout(r.Context(), userID, token, middleware.ClientAddr(r)); err != nil {
		log.Printf("auth: logout: %v", err)
		httpx.Internal(w)
		return
	}

	// The middleware set the refreshed expiry before the handler ran; the
	// session no longer exists, so the header must not survive.
	w.Header().Del(middleware.SessionValidUntilHeader)
	w.WriteHeader(http.StatusNoContent)
}
