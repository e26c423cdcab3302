// Package dto provides data transfer objects for the vault HTTP layer. Every
// binary field is ciphertext or wrapped key material and travels as standard
// base64.
package dto

import (
	validation "github.com/jellydator/validation"

	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// CreateRecordRequest carries a new document and the creator's key record.
type CreateRecordRequest struct {
	Kind              string `json:"kind"`
	EncryptedFields   []byte `json:"encrypted_fields"`
	Name              []byte `json:"name"`
	WrappedContentKey []byte `json:"wrapped_content_key"`
}

// Validate checks if the create record request is valid.
func (r *CreateRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind,
			validation.Required,
			validation.In(
				string(vaultDomain.KindCredential),
				string(vaultDomain.KindTOTP),
				string(vaultDomain.KindNote),
			),
		),
		validation.Field(&r.EncryptedFields, validation.Required),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.WrappedContentKey, validation.Required),
	)
}

// ToDomain converts the request into a domain input.
func (r *CreateRecordRequest) ToDomain() *vaultDomain.CreateRecordInput {
	return &vaultDomain.CreateRecordInput{
		Kind:              vaultDomain.Kind(r.Kind),
		EncryptedFields:   r.EncryptedFields,
		Name:              r.Name,
		WrappedContentKey: r.WrappedContentKey,
	}
}

// UpdateDocumentRequest replaces the fields of a document. Name is optional and
// replaces the encrypted name on every owner's key record when present.
type UpdateDocumentRequest struct {
	EncryptedFields []byte `json:"encrypted_fields"`
	Name            []byte `json:"name,omitempty"`
	ExpectedVersion int64  `json:"expected_version"`
}

// Validate checks if the update document request is valid.
func (r *UpdateDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EncryptedFields, validation.Required),
		validation.Field(&r.ExpectedVersion, validation.Required, validation.Min(int64(1))),
	)
}

// ToDomain converts the request into a domain input.
func (r *UpdateDocumentRequest) ToDomain() *vaultDomain.UpdateDocumentInput {
	return &vaultDomain.UpdateDocumentInput{
		EncryptedFields: r.EncryptedFields,
		Name:            r.Name,
		ExpectedVersion: r.ExpectedVersion,
	}
}
