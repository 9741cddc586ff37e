package appctx

import (
	"context"
)

// UserContext carries the authenticated user identity.
type UserContext struct {
	UserID  string
	Email   string
	Name    string
	IsAdmin bool
}

type userKey struct{}

// WithUser adds user context to ctx.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// GetUser returns user context from ctx, or nil if none.
func GetUser(ctx context.Context) *UserContext {
	if user, ok := ctx.Value(userKey{}).(*UserContext); ok {
		return user
	}
	return nil
}

// GetUserID returns the authenticated user ID, or empty string.
func GetUserID(ctx context.Context) string {
	if user := GetUser(ctx); user != nil {
		return user.UserID
	}
	return ""
}
