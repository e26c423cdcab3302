package usecase

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	"github.com/allisson/passbox/internal/config"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	"github.com/allisson/passbox/internal/database"
	"github.com/allisson/passbox/internal/envelope"
	apperrors "github.com/allisson/passbox/internal/errors"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
	vaultUseCase "github.com/allisson/passbox/internal/vault/usecase"
)

const minCiphertextSize = cryptoDomain.NonceSize + cryptoDomain.TagSize

type sharingUseCase struct {
	txManager    database.TxManager
	shareRepo    ShareRepository
	vaultUseCase vaultUseCase.VaultUseCase
	expiration   time.Duration
	now          func() time.Time
}

// NewSharingUseCase creates a SharingUseCase. Ownership checks and owner
// changes go through the vault use case.
func NewSharingUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	shareRepo ShareRepository,
	vault vaultUseCase.VaultUseCase,
) SharingUseCase {
	return &sharingUseCase{
		txManager:    txManager,
		shareRepo:    shareRepo,
		vaultUseCase: vault,
		expiration:   cfg.ShareExpiration,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func validateShareInput(input *sharingDomain.CreateShareInput) error {
	if len(input.Name) < minCiphertextSize || len(input.EncryptedReceiver) < minCiphertextSize {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "encrypted name or receiver is too short")
	}
	if _, err := envelope.ParseWrappedKey(input.WrappedContentKey); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "malformed wrapped content key")
	}
	if len(input.ReceiverTag) != sharingDomain.ReceiverTagSize {
		return sharingDomain.ErrInvalidReceiverTag
	}
	if _, err := hex.DecodeString(input.ReceiverTag); err != nil {
		return sharingDomain.ErrInvalidReceiverTag
	}
	return nil
}

// Create stores a share offer for a document the principal owns. An expired
// offer to the same receiver is replaced; a pending one is ErrShareAlreadyPending.
func (s *sharingUseCase) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input *sharingDomain.CreateShareInput,
) (*sharingDomain.Share, error) {
	if err := validateShareInput(input); err != nil {
		return nil, err
	}

	doc, err := s.vaultUseCase.GetDocument(ctx, principal, input.ContentDocumentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	share := &sharingDomain.Share{
		ID:                uuid.New(),
		Kind:              doc.Kind,
		Name:              input.Name,
		ContentDocumentID: doc.ID,
		EncryptedReceiver: input.EncryptedReceiver,
		WrappedContentKey: input.WrappedContentKey,
		ReceiverTag:       input.ReceiverTag,
		ExpiresAt:         now.Add(s.expiration),
		CreatedAt:         now,
	}
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		// An expired share still holds the (document, receiver) slot.
		if err := s.shareRepo.DeleteExpiredFor(ctx, doc.ID, input.ReceiverTag, now); err != nil {
			return err
		}
		return s.shareRepo.Create(ctx, share)
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

func (s *sharingUseCase) get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	share, err := s.shareRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if share.Expired(s.now()) {
		return nil, sharingDomain.ErrShareNotFound
	}
	return share, nil
}

// Get returns a pending share.
func (s *sharingUseCase) Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	return s.get(ctx, id)
}

// Accept adds the principal as an owner and deletes the share in one
// transaction, so a share is consumed at most once.
func (s *sharingUseCase) Accept(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	var record *vaultDomain.Record

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		share, err := s.get(ctx, id)
		if err != nil {
			return err
		}

		record, err = s.vaultUseCase.AddOwner(ctx, principal, share.ContentDocumentID, input)
		if err != nil {
			if apperrors.Is(err, vaultDomain.ErrDocumentNotFound) {
				return sharingDomain.ErrShareNotFound
			}
			return err
		}

		return s.shareRepo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Delete declines or revokes a share.
func (s *sharingUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return s.shareRepo.Delete(ctx, id)
}

// CleanExpired removes shares that expired at or before now.
func (s *sharingUseCase) CleanExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.shareRepo.DeleteExpired(ctx, now)
}
