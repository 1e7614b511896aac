// Package middleware contains the HTTP middleware gating every request:
// session validation, refresh, and request-context annotation.
package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"

	"courier/backend/internal/server/httpx"
	sessionservice "courier/backend/internal/session/service"
)

const (
	// TokenHeader carries the session token on authenticated requests.
	TokenHeader = "Token"
	// SessionValidUntilHeader carries the session's new absolute expiry
	// (unix seconds) after each successful refresh.
	SessionValidUntilHeader = "Session-Valid-Until"
)

// Authenticate returns middleware that validates the request's token against
// its originating address. Requests without a token, or with an invalid or
// expired one, proceed as anonymous; downstream handlers decide whether
// authentication is required. A valid session is refreshed, its user id is
// attached to the context, and the new expiry is set on the response. Only a
// storage failure stops the request.
func Authenticate(sessions *sessionservice.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			addr := ClientAddr(r)
			vs, err := sessions.Validate(r.Context(), token, addr)
			if err != nil {
				log.Printf("auth: session validation failed: %v", err)
				httpx.Internal(w)
				return
			}
			if vs == nil {
				next.ServeHTTP(w, r)
				return
			}

			expiresAt, err := sessions.Refresh(r.Context(), vs)
			if err != nil {
				log.Printf("auth: session refresh failed: %v", err)
				httpx.Internal(w)
				return
			}
			w.Header().Set(SessionValidUntilHeader, strconv.FormatInt(expiresAt.Unix(), 10))

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), vs.UserID())))
		})
	}
}

// ClientAddr returns the client IP the session is bound to. chi's RealIP
// middleware has already resolved forwarding headers into RemoteAddr; this
// strips the port when one is present.
func ClientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
