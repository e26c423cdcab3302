// Package repository provides PostgreSQL, MySQL and SQLite persistence for shares.
package repository

import (
	"database/sql"
	"errors"

	apperrors "github.com/allisson/passbox/internal/errors"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

const shareColumns = `id, kind, name, content_document_id, encrypted_receiver, wrapped_content_key,
	receiver_tag, expires_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanShare scans a row whose UUID columns decode natively (PostgreSQL and SQLite).
func scanShare(row rowScanner) (*sharingDomain.Share, error) {
	var share sharingDomain.Share
	var kind string

	err := row.Scan(
		&share.ID,
		&kind,
		&share.Name,
		&share.ContentDocumentID,
		&share.EncryptedReceiver,
		&share.WrappedContentKey,
		&share.ReceiverTag,
		&share.ExpiresAt,
		&share.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	share.Kind = vaultDomain.Kind(kind)
	return &share, nil
}

func getShareError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sharingDomain.ErrShareNotFound
	}
	return apperrors.Wrap(err, "failed to get share")
}

func deletedOnce(result sql.Result) error {
	count, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if count == 0 {
		return sharingDomain.ErrShareNotFound
	}
	return nil
}

func deletedCount(result sql.Result) (int64, error) {
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}
