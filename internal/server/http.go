// Package server assembles the HTTP router from the feature handlers and the
// shared middleware stack.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	authhandler "courier/backend/internal/auth/handler"
	authservice "courier/backend/internal/auth/service"
	"courier/backend/internal/keyexchange"
	messagehandler "courier/backend/internal/message/handler"
	messageservice "courier/backend/internal/message/service"
	"courier/backend/internal/security"
	"courier/backend/internal/server/middleware"
	sessionservice "courier/backend/internal/session/service"
	"courier/backend/internal/telemetry"
	userhandler "courier/backend/internal/user/handler"
	userservice "courier/backend/internal/user/service"
)

// Deps carries everything the router needs. Telemetry may be nil.
type Deps struct {
	Auth      *authservice.AuthService
	Users     *userservice.UserService
	Messages  *messageservice.MessageService
	Sessions  *sessionservice.Manager
	KeyParams *keyexchange.Manager
	Codec     security.Codec
	Telemetry telemetry.Middleware
}

// Routes builds the full router: base middleware, telemetry, session
// authentication, then the feature routers under /api/v1.
func Routes(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	if d.Telemetry != nil {
		r.Use(func(next http.Handler) http.Handler { return d.Telemetry(next) })
	}
	r.Use(middleware.Authenticate(d.Sessions))

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authhandler.NewHandler(d.Auth, d.KeyParams, d.Codec).Routes())
		r.Mount("/users", userhandler.NewHandler(d.Users).Routes())
		r.Mount("/messages", messagehandler.NewHandler(d.Messages).Routes())
	})

	return r
}
