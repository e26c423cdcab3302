package domain

import (
	"time"

	"github.com/google/uuid"
)

// Owner links a username to the key record that holds its copy of the content key.
type Owner struct {
	Username    string    `json:"username"`
	KeyRecordID uuid.UUID `json:"key_record_id"`
}

// ContentDocument is the encrypted payload of a record. EncryptedFields is an
// encoded plain envelope under the content key. Owners is never empty while the
// document exists, and Version increases on every change.
type ContentDocument struct {
	ID              uuid.UUID
	Kind            Kind
	EncryptedFields []byte
	Owners          []Owner
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Owner returns the owners entry of username.
func (d *ContentDocument) Owner(username string) (Owner, bool) {
	for _, owner := range d.Owners {
		if owner.Username == username {
			return owner, true
		}
	}
	return Owner{}, false
}

// HasOwner reports whether username owns the document.
func (d *ContentDocument) HasOwner(username string) bool {
	_, ok := d.Owner(username)
	return ok
}

// WithoutOwner returns the owners list with username removed. The receiver is
// not modified.
func (d *ContentDocument) WithoutOwner(username string) []Owner {
	owners := make([]Owner, 0, len(d.Owners))
	for _, owner := range d.Owners {
		if owner.Username != username {
			owners = append(owners, owner)
		}
	}
	return owners
}

// KeyRecord is one owner's handle on a content document. Name is the record
// display name encrypted under the content key and WrappedContentKey is the
// content key wrapped under the owner's master key.
type KeyRecord struct {
	ID                uuid.UUID
	Name              []byte
	WrappedContentKey []byte
	ContentDocumentID uuid.UUID
	OwnerID           uuid.UUID
	OwnerUsername     string
	Kind              Kind
	CreatedAt         time.Time
}

// Record joins a key record with its content document. Document is nil when the
// document is missing, which is a corruption the caller must surface.
type Record struct {
	KeyRecord *KeyRecord
	Document  *ContentDocument
}

// CreateRecordInput is what a client sends to create a record.
type CreateRecordInput struct {
	Kind              Kind
	EncryptedFields   []byte
	Name              []byte
	WrappedContentKey []byte
}

// UpdateDocumentInput replaces the fields of a document under its existing
// content key. ExpectedVersion is the version the client read.
type UpdateDocumentInput struct {
	EncryptedFields []byte
	Name            []byte
	ExpectedVersion int64
}

// AddOwnerInput is the new owner's key record material.
type AddOwnerInput struct {
	Name              []byte
	WrappedContentKey []byte
}
