package domain

import (
	"github.com/allisson/passbox/internal/errors"
)

// Sharing error definitions.
var (
	// ErrShareNotFound indicates the share does not exist, expired or was
	// already accepted or declined.
	ErrShareNotFound = errors.Wrap(errors.ErrNotFound, "share not found")

	// ErrShareAlreadyPending indicates an unresolved share of the document to
	// the same receiver exists.
	ErrShareAlreadyPending = errors.Wrap(errors.ErrConflict, "a share to this receiver is already pending")

	// ErrInvalidReceiverTag indicates a receiver tag that is not a hex HMAC-SHA256.
	ErrInvalidReceiverTag = errors.Wrap(errors.ErrInvalidInput, "invalid receiver tag")
)
