package client

import (
	"github.com/allisson/passbox/internal/errors"
)

var (
	// ErrDuplicateCredential indicates a credential for the same site and
	// username is already stored.
	ErrDuplicateCredential = errors.Wrap(errors.ErrConflict, "credential for this site and username already exists")

	// ErrNotReceiver indicates a share link addressed to another user. The share
	// is discarded when this is returned.
	ErrNotReceiver = errors.Wrap(errors.ErrUnauthorized, "share is addressed to another user")

	// ErrInvalidShareLink indicates a link without a share id or secret fragment.
	ErrInvalidShareLink = errors.Wrap(errors.ErrInvalidInput, "invalid share link")

	// ErrInvalidReceiver indicates a blank receiver username.
	ErrInvalidReceiver = errors.Wrap(errors.ErrInvalidInput, "share receiver must not be empty")

	// ErrFieldCount indicates a field list that does not fit the record kind.
	ErrFieldCount = errors.Wrap(errors.ErrInvalidInput, "wrong number of fields for record kind")

	// ErrEmptyName indicates a record whose site or title is blank.
	ErrEmptyName = errors.Wrap(errors.ErrInvalidInput, "first field names the record and must not be empty")

	// ErrEmptyPassword indicates a blank master password.
	ErrEmptyPassword = errors.Wrap(errors.ErrInvalidInput, "password must not be empty")

	// ErrMissingDocument indicates a key record whose content document is gone.
	ErrMissingDocument = errors.Wrap(errors.ErrCorruption, "key record has no content document")
)
