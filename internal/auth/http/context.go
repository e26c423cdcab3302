// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"context"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
)

type principalKey struct{}

type tokenHashKey struct{}

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, principal *authDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (nil, false) if the request was not authenticated.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok && principal != nil
}

// WithTokenHash stores the hash of the bearer token that authenticated the request.
func WithTokenHash(ctx context.Context, tokenHash string) context.Context {
	return context.WithValue(ctx, tokenHashKey{}, tokenHash)
}

// GetTokenHash retrieves the hash of the bearer token that authenticated the request.
func GetTokenHash(ctx context.Context) (string, bool) {
	tokenHash, ok := ctx.Value(tokenHashKey{}).(string)
	return tokenHash, ok && tokenHash != ""
}
