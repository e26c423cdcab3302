package dto

import (
	"time"

	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
)

// ShareResponse is a pending share as stored.
type ShareResponse struct {
	ID                string    `json:"id"`
	Kind              string    `json:"kind"`
	Name              []byte    `json:"name"`
	ContentDocumentID string    `json:"content_document_id"`
	EncryptedReceiver []byte    `json:"encrypted_receiver"`
	WrappedContentKey []byte    `json:"wrapped_content_key"`
	ExpiresAt         time.Time `json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// MapShareToResponse converts a domain share into a response. The receiver tag
// stays on the server.
func MapShareToResponse(share *sharingDomain.Share) ShareResponse {
	return ShareResponse{
		ID:                share.ID.String(),
		Kind:              string(share.Kind),
		Name:              share.Name,
		ContentDocumentID: share.ContentDocumentID.String(),
		EncryptedReceiver: share.EncryptedReceiver,
		WrappedContentKey: share.WrappedContentKey,
		ExpiresAt:         share.ExpiresAt,
		CreatedAt:         share.CreatedAt,
	}
}
