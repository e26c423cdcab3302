package domain

import (
	"github.com/allisson/passbox/internal/errors"
)

var (
	// ErrTokenNotFound indicates no token matches the given hash.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidToken indicates a token is unknown, expired, revoked or belongs
	// to a user that no longer exists. The cases are indistinguishable to callers.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")
)
