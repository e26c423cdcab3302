package remote

import (
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	sharingDTO "github.com/allisson/passbox/internal/sharing/http/dto"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
	vaultDTO "github.com/allisson/passbox/internal/vault/http/dto"
)

func toKeyRecord(resp *vaultDTO.KeyRecordResponse) (*vaultDomain.KeyRecord, error) {
	id, err := parseID(resp.ID)
	if err != nil {
		return nil, err
	}
	docID, err := parseID(resp.ContentDocumentID)
	if err != nil {
		return nil, err
	}

	return &vaultDomain.KeyRecord{
		ID:                id,
		Name:              resp.Name,
		WrappedContentKey: resp.WrappedContentKey,
		ContentDocumentID: docID,
		OwnerUsername:     resp.OwnerUsername,
		Kind:              vaultDomain.Kind(resp.Kind),
		CreatedAt:         resp.CreatedAt,
	}, nil
}

func toDocument(resp *vaultDTO.DocumentResponse) (*vaultDomain.ContentDocument, error) {
	id, err := parseID(resp.ID)
	if err != nil {
		return nil, err
	}

	owners := make([]vaultDomain.Owner, 0, len(resp.Owners))
	for _, owner := range resp.Owners {
		keyRecordID, err := parseID(owner.KeyRecordID)
		if err != nil {
			return nil, err
		}
		owners = append(owners, vaultDomain.Owner{Username: owner.Username, KeyRecordID: keyRecordID})
	}

	return &vaultDomain.ContentDocument{
		ID:              id,
		Kind:            vaultDomain.Kind(resp.Kind),
		EncryptedFields: resp.EncryptedFields,
		Owners:          owners,
		Version:         resp.Version,
		CreatedAt:       resp.CreatedAt,
		UpdatedAt:       resp.UpdatedAt,
	}, nil
}

func toRecord(resp *vaultDTO.RecordResponse) (*vaultDomain.Record, error) {
	keyRecord, err := toKeyRecord(&resp.KeyRecord)
	if err != nil {
		return nil, err
	}

	record := &vaultDomain.Record{KeyRecord: keyRecord}
	if resp.Document != nil {
		if record.Document, err = toDocument(resp.Document); err != nil {
			return nil, err
		}
	}
	return record, nil
}

func toShare(resp *sharingDTO.ShareResponse) (*sharingDomain.Share, error) {
	id, err := parseID(resp.ID)
	if err != nil {
		return nil, err
	}
	docID, err := parseID(resp.ContentDocumentID)
	if err != nil {
		return nil, err
	}

	return &sharingDomain.Share{
		ID:                id,
		Kind:              vaultDomain.Kind(resp.Kind),
		Name:              resp.Name,
		ContentDocumentID: docID,
		EncryptedReceiver: resp.EncryptedReceiver,
		WrappedContentKey: resp.WrappedContentKey,
		ExpiresAt:         resp.ExpiresAt,
		CreatedAt:         resp.CreatedAt,
	}, nil
}
