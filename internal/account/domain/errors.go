package domain

import (
	"github.com/allisson/passbox/internal/errors"
)

// Account error definitions.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates the username is taken.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates the username or authenticator is wrong.
	// Both cases return the same error to avoid user enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrWrongPassword indicates the master key could not be unwrapped with the
	// supplied password.
	ErrWrongPassword = errors.Wrap(errors.ErrCryptoFailure, "wrong password")

	// ErrMasterKeyLocked indicates the master key was used after Destroy.
	ErrMasterKeyLocked = errors.Wrap(errors.ErrUnauthorized, "master key is locked")

	// ErrInvalidKeyMaterial indicates key material sent by a client is malformed.
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "invalid key material")
)
