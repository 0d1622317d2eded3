package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserContextMissing = errors.New("user context not found")
)

// UserContextKey is the key for user data in context
type UserContextKey struct{}

// UserContext holds authenticated user information
type UserContext struct {
	UserID uint64
	Token  string
}

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*UserContext, error)
}

// WithUser stores the user context on ctx
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, UserContextKey{}, user)
}

// GetUserFromContext retrieves user context from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	userCtx, ok := ctx.Value(UserContextKey{}).(*UserContext)
	if !ok || userCtx == nil {
		return nil, ErrUserContextMissing
	}
	return userCtx, nil
}

// ExtractBearerToken extracts the token from "Bearer <token>" format
func ExtractBearerToken(authHeader string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
