// Package usecase implements the server side of share offers. The server only
// stores what the sharer sent and deletes it exactly once on accept or decline;
// every cryptographic check happens on the clients.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// ShareRepository defines persistence operations for shares.
type ShareRepository interface {
	// Create stores a new share. Returns ErrShareAlreadyPending when the document
	// already has a share with the same receiver tag.
	Create(ctx context.Context, share *sharingDomain.Share) error

	// Get retrieves a share by ID. Returns ErrShareNotFound if not found.
	Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error)

	// Delete removes a share. Returns ErrShareNotFound if it was already removed.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpiredFor removes the share of documentID for receiverTag if it
	// expired at or before now. A missing row is not an error.
	DeleteExpiredFor(ctx context.Context, documentID uuid.UUID, receiverTag string, now time.Time) error

	// DeleteExpired removes shares that expired at or before now and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SharingUseCase manages share offers.
type SharingUseCase interface {
	// Create offers a document the principal owns.
	Create(
		ctx context.Context,
		principal *authDomain.Principal,
		input *sharingDomain.CreateShareInput,
	) (*sharingDomain.Share, error)

	// Get returns a pending share. Expired shares are not found.
	Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error)

	// Accept makes the principal an owner of the shared document with the given
	// key record material and consumes the share.
	Accept(
		ctx context.Context,
		principal *authDomain.Principal,
		id uuid.UUID,
		input *vaultDomain.AddOwnerInput,
	) (*vaultDomain.Record, error)

	// Delete consumes a share without accepting it.
	Delete(ctx context.Context, id uuid.UUID) error

	// CleanExpired deletes shares that expired at or before now.
	CleanExpired(ctx context.Context, now time.Time) (int64, error)
}
