package dto

import (
	"time"

	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// OwnerResponse is one entry of a document's owners list.
type OwnerResponse struct {
	Username    string `json:"username"`
	KeyRecordID string `json:"key_record_id"`
}

// DocumentResponse is a content document as stored.
type DocumentResponse struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	EncryptedFields []byte          `json:"encrypted_fields"`
	Owners          []OwnerResponse `json:"owners"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// KeyRecordResponse is a key record as stored.
type KeyRecordResponse struct {
	ID                string    `json:"id"`
	Name              []byte    `json:"name"`
	WrappedContentKey []byte    `json:"wrapped_content_key"`
	ContentDocumentID string    `json:"content_document_id"`
	OwnerUsername     string    `json:"owner_username"`
	Kind              string    `json:"kind"`
	CreatedAt         time.Time `json:"created_at"`
}

// RecordResponse joins a key record with its document. Document is null when
// the document is missing.
type RecordResponse struct {
	KeyRecord KeyRecordResponse `json:"key_record"`
	Document  *DocumentResponse `json:"document"`
}

// ListRecordsResponse wraps the caller's records.
type ListRecordsResponse struct {
	Data []RecordResponse `json:"data"`
}

// MapDocumentToResponse converts a domain document into a response.
func MapDocumentToResponse(doc *vaultDomain.ContentDocument) DocumentResponse {
	owners := make([]OwnerResponse, 0, len(doc.Owners))
	for _, owner := range doc.Owners {
		owners = append(owners, OwnerResponse{
			Username:    owner.Username,
			KeyRecordID: owner.KeyRecordID.String(),
		})
	}

	return DocumentResponse{
		ID:              doc.ID.String(),
		Kind:            string(doc.Kind),
		EncryptedFields: doc.EncryptedFields,
		Owners:          owners,
		Version:         doc.Version,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// MapKeyRecordToResponse converts a domain key record into a response.
func MapKeyRecordToResponse(record *vaultDomain.KeyRecord) KeyRecordResponse {
	return KeyRecordResponse{
		ID:                record.ID.String(),
		Name:              record.Name,
		WrappedContentKey: record.WrappedContentKey,
		ContentDocumentID: record.ContentDocumentID.String(),
		OwnerUsername:     record.OwnerUsername,
		Kind:              string(record.Kind),
		CreatedAt:         record.CreatedAt,
	}
}

// MapRecordToResponse converts a domain record into a response.
func MapRecordToResponse(record *vaultDomain.Record) RecordResponse {
	response := RecordResponse{KeyRecord: MapKeyRecordToResponse(record.KeyRecord)}
	if record.Document != nil {
		doc := MapDocumentToResponse(record.Document)
		response.Document = &doc
	}
	return response
}

// MapRecordsToListResponse converts domain records into a list response.
func MapRecordsToListResponse(records []*vaultDomain.Record) ListRecordsResponse {
	data := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, MapRecordToResponse(record))
	}
	return ListRecordsResponse{Data: data}
}
