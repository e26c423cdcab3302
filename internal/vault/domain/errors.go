package domain

import (
	"github.com/allisson/passbox/internal/errors"
)

// Vault error definitions.
var (
	// ErrDocumentNotFound indicates the content document does not exist or the
	// caller is not one of its owners.
	ErrDocumentNotFound = errors.Wrap(errors.ErrNotFound, "content document not found")

	// ErrKeyRecordNotFound indicates the key record does not exist or belongs to
	// another user.
	ErrKeyRecordNotFound = errors.Wrap(errors.ErrNotFound, "key record not found")

	// ErrOwnerNotFound indicates the username is not an owner of the document.
	ErrOwnerNotFound = errors.Wrap(errors.ErrNotFound, "owner not found")

	// ErrAlreadyOwner indicates the user already owns the document.
	ErrAlreadyOwner = errors.Wrap(errors.ErrConflict, "user is already an owner")

	// ErrVersionConflict indicates the document changed since it was read.
	ErrVersionConflict = errors.Wrap(errors.ErrConflict, "content document was modified concurrently")

	// ErrInvalidKind indicates an unknown record kind.
	ErrInvalidKind = errors.Wrap(errors.ErrInvalidInput, "invalid record kind")

	// ErrOrphanedKeyRecord indicates a key record whose content document is missing.
	ErrOrphanedKeyRecord = errors.Wrap(errors.ErrCorruption, "key record has no content document")

	// ErrOwnerlessDocument indicates a content document with an empty owners list.
	ErrOwnerlessDocument = errors.Wrap(errors.ErrCorruption, "content document has no owners")
)
