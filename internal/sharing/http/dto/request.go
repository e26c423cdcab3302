// Package dto provides data transfer objects for the sharing HTTP layer.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// CreateShareRequest offers a document to a receiver known only to the clients.
type CreateShareRequest struct {
	ContentDocumentID string `json:"content_document_id"`
	Name              []byte `json:"name"`
	EncryptedReceiver []byte `json:"encrypted_receiver"`
	WrappedContentKey []byte `json:"wrapped_content_key"`
	ReceiverTag       string `json:"receiver_tag"`
}

// Validate checks if the create share request is valid.
func (r *CreateShareRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ContentDocumentID, validation.Required, is.UUID),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.EncryptedReceiver, validation.Required),
		validation.Field(&r.WrappedContentKey, validation.Required),
		validation.Field(&r.ReceiverTag,
			validation.Required,
			validation.Length(sharingDomain.ReceiverTagSize, sharingDomain.ReceiverTagSize),
			is.Hexadecimal,
		),
	)
}

// ToDomain converts the request into a domain input. Call Validate first.
func (r *CreateShareRequest) ToDomain() *sharingDomain.CreateShareInput {
	return &sharingDomain.CreateShareInput{
		ContentDocumentID: uuid.MustParse(r.ContentDocumentID),
		Name:              r.Name,
		EncryptedReceiver: r.EncryptedReceiver,
		WrappedContentKey: r.WrappedContentKey,
		ReceiverTag:       r.ReceiverTag,
	}
}

// AcceptShareRequest carries the receiver's own key record material.
type AcceptShareRequest struct {
	Name              []byte `json:"name"`
	WrappedContentKey []byte `json:"wrapped_content_key"`
}

// Validate checks if the accept share request is valid.
func (r *AcceptShareRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.WrappedContentKey, validation.Required),
	)
}

// ToDomain converts the request into a domain input.
func (r *AcceptShareRequest) ToDomain() *vaultDomain.AddOwnerInput {
	return &vaultDomain.AddOwnerInput{
		Name:              r.Name,
		WrappedContentKey: r.WrappedContentKey,
	}
}
