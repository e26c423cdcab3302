// Package repository provides PostgreSQL, MySQL and SQLite persistence for
// content documents and key records.
package repository

import (
	"encoding/json"

	apperrors "github.com/allisson/passbox/internal/errors"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

const (
	documentColumns  = `id, kind, encrypted_fields, owners, version, created_at, updated_at`
	keyRecordColumns = `id, name, wrapped_content_key, content_document_id, owner_id, owner_username, kind, created_at`
)

// encodeOwners renders the owners list for a JSON column. Drivers receive a
// string so PostgreSQL treats it as JSONB text rather than bytea.
func encodeOwners(owners []vaultDomain.Owner) (string, error) {
	if owners == nil {
		owners = []vaultDomain.Owner{}
	}
	b, err := json.Marshal(owners)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode owners")
	}
	return string(b), nil
}

func decodeOwners(b []byte) ([]vaultDomain.Owner, error) {
	var owners []vaultDomain.Owner
	if err := json.Unmarshal(b, &owners); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCorruption, "failed to decode owners")
	}
	return owners, nil
}

func versionConflictUnlessUpdated(count int64) error {
	if count == 0 {
		return vaultDomain.ErrVersionConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanKeyRecord scans a row whose UUID columns decode natively (PostgreSQL and SQLite).
func scanKeyRecord(row rowScanner) (*vaultDomain.KeyRecord, error) {
	var record vaultDomain.KeyRecord
	var kind string

	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.WrappedContentKey,
		&record.ContentDocumentID,
		&record.OwnerID,
		&record.OwnerUsername,
		&kind,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Kind = vaultDomain.Kind(kind)
	return &record, nil
}
