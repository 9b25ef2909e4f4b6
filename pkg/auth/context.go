package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "user"

// UserContext carries the authenticated principal through a request
type UserContext struct {
	UserID int64
	Name   string
	Email  string
}

// WithUser returns a context carrying the authenticated principal
func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated principal from a context
func GetUserFromContext(ctx context.Context) (UserContext, error) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	if !ok {
		return UserContext{}, errors.New("no user in context")
	}
	return user, nil
}
