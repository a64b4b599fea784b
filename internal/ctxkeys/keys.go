// Package ctxkeys defines typed context keys shared between middleware and handlers.
// Both sides import this package so neither has to import the other.
package ctxkeys

import "context"

// Key is a typed string used as context key to prevent collisions.
type Key string

const (
	UserID Key = "userID"
)

// GetUserID returns the authenticated user's ID, or "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(UserID).(string)
	return id
}

// WithUserID returns a copy of ctx carrying the user's ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserID, userID)
}
