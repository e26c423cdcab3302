package envelope

import (
	"github.com/allisson/passbox/internal/errors"
)

var (
	// ErrEmptyFields indicates an envelope was requested for zero fields.
	ErrEmptyFields = errors.Wrap(errors.ErrInvalidInput, "envelope requires at least one field")

	// ErrMalformedEnvelope indicates encoded envelope bytes could not be parsed.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrCryptoFailure, "malformed envelope")

	// ErrMalformedWrappedKey indicates a wrapped key does not decode to salt and wrapped bytes.
	ErrMalformedWrappedKey = errors.Wrap(errors.ErrCryptoFailure, "malformed wrapped key")
)
