// Package domain defines share offers: a content key wrapped under a one-time
// share secret that travels to the receiver out of band.
package domain

import (
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// ReceiverTagSize is the length of a hex HMAC-SHA256 receiver tag.
const ReceiverTagSize = 64

// Share is a pending offer of a content document. The server never sees the
// share secret, so it cannot unwrap WrappedContentKey or read the receiver.
// ReceiverTag is a keyed tag of the receiver username under the content key and
// is unique per document.
type Share struct {
	ID                uuid.UUID
	Kind              vaultDomain.Kind
	Name              []byte
	ContentDocumentID uuid.UUID
	EncryptedReceiver []byte
	WrappedContentKey []byte
	ReceiverTag       string
	ExpiresAt         time.Time
	CreatedAt         time.Time
}

// Expired reports whether the offer lapsed at or before now.
func (s *Share) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// CreateShareInput is what an owner sends to offer a document.
type CreateShareInput struct {
	ContentDocumentID uuid.UUID
	Name              []byte
	EncryptedReceiver []byte
	WrappedContentKey []byte
	ReceiverTag       string
}
