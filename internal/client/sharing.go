package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	cryptoService "github.com/allisson/passbox/internal/crypto/service"
	"github.com/allisson/passbox/internal/envelope"
	apperrors "github.com/allisson/passbox/internal/errors"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// Offer is a resolved share addressed to the session user.
type Offer struct {
	ShareID    uuid.UUID
	DocumentID uuid.UUID
	Kind       vaultDomain.Kind
	Name       string
	ExpiresAt  time.Time
}

// Share offers a record to receiver. The content key is wrapped under a fresh
// share secret that only travels inside the returned link.
func (s *Session) Share(ctx context.Context, keyRecordID uuid.UUID, receiver string) (*ShareLink, error) {
	receiver = accountDomain.NormalizeUsername(receiver)
	if receiver == "" {
		return nil, ErrInvalidReceiver
	}

	keyRecord, doc, err := s.load(ctx, keyRecordID)
	if err != nil {
		return nil, err
	}
	if doc.HasOwner(receiver) {
		return nil, vaultDomain.ErrAlreadyOwner
	}

	contentKey, err := s.unwrapContentKey(keyRecord.WrappedContentKey)
	if err != nil {
		return nil, err
	}
	defer contentKey.Destroy()

	engine := s.engine()
	name, err := engine.Decrypt(keyRecord.Name, contentKey)
	if err != nil {
		return nil, err
	}

	secret, err := engine.GenerateSecret()
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(secret)

	wrapped, err := s.codec.WrapKey(contentKey, secret)
	if err != nil {
		return nil, err
	}
	encryptedReceiver, err := engine.Encrypt(receiver, contentKey)
	if err != nil {
		return nil, err
	}
	encryptedName, err := engine.Encrypt(name, contentKey)
	if err != nil {
		return nil, err
	}
	tag, err := engine.Tag(contentKey, receiver)
	if err != nil {
		return nil, err
	}

	share, err := s.backend.CreateShare(ctx, &sharingDomain.CreateShareInput{
		ContentDocumentID: doc.ID,
		Name:              encryptedName,
		EncryptedReceiver: encryptedReceiver,
		WrappedContentKey: wrapped,
		ReceiverTag:       tag,
	})
	if err != nil {
		return nil, err
	}

	return &ShareLink{
		ShareID:   share.ID,
		URL:       FormatShareLink(s.opts.ShareBaseURL, share.ID, secret),
		ExpiresAt: share.ExpiresAt,
	}, nil
}

// resolve opens the share behind link. The unwrap runs before the receiver
// check, so a forged link fails with a crypto error and leaves the share alone.
// A share addressed to someone else is discarded.
func (s *Session) resolve(ctx context.Context, link string) (*sharingDomain.Share, *cryptoService.Key, error) {
	id, secret, err := ParseShareLink(link)
	if err != nil {
		return nil, nil, err
	}
	defer cryptoDomain.Zero(secret)

	share, err := s.backend.GetShare(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	contentKey, err := s.codec.UnwrapKey(share.WrappedContentKey, secret)
	if err != nil {
		return nil, nil, err
	}

	receiver, err := s.engine().Decrypt(share.EncryptedReceiver, contentKey)
	if err != nil {
		contentKey.Destroy()
		return nil, nil, err
	}

	if accountDomain.NormalizeUsername(receiver) != accountDomain.NormalizeUsername(s.creds.Username) {
		contentKey.Destroy()
		if err := s.backend.DeleteShare(ctx, share.ID); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, ErrNotReceiver
	}

	return share, contentKey, nil
}

// Resolve verifies link and describes the offered record.
func (s *Session) Resolve(ctx context.Context, link string) (*Offer, error) {
	share, contentKey, err := s.resolve(ctx, link)
	if err != nil {
		return nil, err
	}
	defer contentKey.Destroy()

	name, err := s.engine().Decrypt(share.Name, contentKey)
	if err != nil {
		return nil, err
	}

	return &Offer{
		ShareID:    share.ID,
		DocumentID: share.ContentDocumentID,
		Kind:       share.Kind,
		Name:       name,
		ExpiresAt:  share.ExpiresAt,
	}, nil
}

// Accept re-wraps the shared content key under the session user's master key
// and becomes an owner. The share is consumed.
func (s *Session) Accept(ctx context.Context, link string) (*Entry, error) {
	share, contentKey, err := s.resolve(ctx, link)
	if err != nil {
		return nil, err
	}
	defer contentKey.Destroy()

	wrapped, err := s.wrapContentKey(contentKey)
	if err != nil {
		return nil, err
	}

	record, err := s.backend.AcceptShare(ctx, share.ID, &vaultDomain.AddOwnerInput{
		Name:              share.Name,
		WrappedContentKey: wrapped,
	})
	if err != nil {
		return nil, err
	}
	if record.Document == nil {
		return nil, ErrMissingDocument
	}

	plain, err := envelope.DecodePlain(record.Document.EncryptedFields)
	if err != nil {
		return nil, err
	}
	values, err := s.codec.DecryptPlain(plain, contentKey)
	if err != nil {
		return nil, err
	}
	name, err := s.engine().Decrypt(record.KeyRecord.Name, contentKey)
	if err != nil {
		return nil, err
	}

	return newEntry(record.KeyRecord, record.Document, name, values), nil
}

// Decline discards a share addressed to the session user.
func (s *Session) Decline(ctx context.Context, link string) error {
	share, contentKey, err := s.resolve(ctx, link)
	if err != nil {
		return err
	}
	contentKey.Destroy()

	return s.backend.DeleteShare(ctx, share.ID)
}

// Revoke removes username from the owners of the record behind keyRecordID.
// It needs no key material.
func (s *Session) Revoke(ctx context.Context, keyRecordID uuid.UUID, username string) error {
	keyRecord, err := s.backend.GetKeyRecord(ctx, keyRecordID)
	if err != nil {
		return err
	}
	return s.backend.RemoveOwner(ctx, keyRecord.ContentDocumentID, accountDomain.NormalizeUsername(username))
}
