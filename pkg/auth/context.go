package auth

import (
	"context"
	"errors"
)

// UserContext is the authenticated caller of a request
type UserContext struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

type contextKey string

// UserContextKey is the context key under which the caller is stored
const UserContextKey contextKey = "user"

// ErrNoUser is returned when the request carries no caller identity
var ErrNoUser = errors.New("user not found in context")

// GetUserFromContext extracts the caller from context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(UserContextKey).(*UserContext)
	if !ok || user == nil || user.UserID == "" {
		return nil, ErrNoUser
	}
	return user, nil
}

// SetUserInContext adds the caller to context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}
