package middleware

import "context"

type contextKey struct{ name string }

var userIDKey = contextKey{"user_id"}

// WithUser returns a context marking the request as authenticated for userID.
// Handlers read it via UserID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id and true if the request was
// authenticated; otherwise "", false.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}
