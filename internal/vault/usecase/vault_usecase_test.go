package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	dbMocks "github.com/allisson/passbox/internal/database/mocks"
	"github.com/allisson/passbox/internal/envelope"
	apperrors "github.com/allisson/passbox/internal/errors"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
	"github.com/allisson/passbox/internal/vault/usecase"
	"github.com/allisson/passbox/internal/vault/usecase/mocks"
)

type vaultFixture struct {
	txManager     *dbMocks.MockTxManager
	documentRepo  *mocks.MockDocumentRepository
	keyRecordRepo *mocks.MockKeyRecordRepository
	useCase       usecase.VaultUseCase
}

func newVaultFixture() *vaultFixture {
	f := &vaultFixture{
		txManager:     &dbMocks.MockTxManager{},
		documentRepo:  &mocks.MockDocumentRepository{},
		keyRecordRepo: &mocks.MockKeyRecordRepository{},
	}
	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.useCase = usecase.NewVaultUseCase(f.txManager, f.documentRepo, f.keyRecordRepo)
	return f
}

func (f *vaultFixture) assertExpectations(t *testing.T) {
	f.documentRepo.AssertExpectations(t)
	f.keyRecordRepo.AssertExpectations(t)
}

func ciphertext(b byte) []byte {
	return bytes.Repeat([]byte{b}, cryptoDomain.NonceSize+cryptoDomain.TagSize+8)
}

func encodedFields(t *testing.T) []byte {
	t.Helper()
	data, err := envelope.Encode(&envelope.PlainEnvelope{Ciphertexts: [][]byte{ciphertext(1), ciphertext(2)}})
	require.NoError(t, err)
	return data
}

func wrappedContentKey() []byte {
	return bytes.Repeat([]byte{7}, envelope.WrappedKeySize)
}

func principal(username string) *authDomain.Principal {
	return &authDomain.Principal{UserID: uuid.New(), Username: username}
}

func documentOwnedBy(version int64, usernames ...string) *vaultDomain.ContentDocument {
	doc := &vaultDomain.ContentDocument{ID: uuid.New(), Kind: vaultDomain.KindCredential, Version: version}
	for _, username := range usernames {
		doc.Owners = append(doc.Owners, vaultDomain.Owner{Username: username, KeyRecordID: uuid.New()})
	}
	return doc
}

func TestVaultUseCase_Create(t *testing.T) {
	ctx := context.Background()
	alice := principal("alice")

	t.Run("Success", func(t *testing.T) {
		f := newVaultFixture()
		input := &vaultDomain.CreateRecordInput{
			Kind:              vaultDomain.KindNote,
			EncryptedFields:   encodedFields(t),
			Name:              ciphertext(3),
			WrappedContentKey: wrappedContentKey(),
		}

		var createdDoc *vaultDomain.ContentDocument
		f.documentRepo.On("Create", ctx, mock.AnythingOfType("*domain.ContentDocument")).
			Run(func(args mock.Arguments) {
				createdDoc = args.Get(1).(*vaultDomain.ContentDocument)
			}).
			Return(nil).
			Once()
		f.keyRecordRepo.On("Create", ctx, mock.MatchedBy(func(record *vaultDomain.KeyRecord) bool {
			return createdDoc != nil &&
				record.ContentDocumentID == createdDoc.ID &&
				record.OwnerID == alice.UserID &&
				record.OwnerUsername == "alice" &&
				record.Kind == vaultDomain.KindNote
		})).Return(nil).Once()

		record, err := f.useCase.Create(ctx, alice, input)
		require.NoError(t, err)
		assert.Equal(t, int64(1), record.Document.Version)
		require.Len(t, record.Document.Owners, 1)
		assert.Equal(t, vaultDomain.Owner{Username: "alice", KeyRecordID: record.KeyRecord.ID}, record.Document.Owners[0])
		f.assertExpectations(t)
	})

	t.Run("Invalid input", func(t *testing.T) {
		valid := func() *vaultDomain.CreateRecordInput {
			return &vaultDomain.CreateRecordInput{
				Kind:              vaultDomain.KindCredential,
				EncryptedFields:   encodedFields(t),
				Name:              ciphertext(3),
				WrappedContentKey: wrappedContentKey(),
			}
		}

		tests := []struct {
			name   string
			mutate func(*vaultDomain.CreateRecordInput)
			target error
		}{
			{"unknown kind", func(in *vaultDomain.CreateRecordInput) { in.Kind = "bogus" }, vaultDomain.ErrInvalidKind},
			{"fields not an envelope", func(in *vaultDomain.CreateRecordInput) {
				in.EncryptedFields = []byte("plaintext")
			}, apperrors.ErrInvalidInput},
			{"name too short", func(in *vaultDomain.CreateRecordInput) {
				in.Name = []byte{1, 2, 3}
			}, apperrors.ErrInvalidInput},
			{"wrapped key size", func(in *vaultDomain.CreateRecordInput) {
				in.WrappedContentKey = in.WrappedContentKey[1:]
			}, apperrors.ErrInvalidInput},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newVaultFixture()
				input := valid()
				tt.mutate(input)

				_, err := f.useCase.Create(ctx, alice, input)
				assert.ErrorIs(t, err, tt.target)
				f.assertExpectations(t)
			})
		}
	})
}

func TestVaultUseCase_GetKeyRecord(t *testing.T) {
	ctx := context.Background()
	alice := principal("alice")
	id := uuid.New()

	t.Run("Owner", func(t *testing.T) {
		f := newVaultFixture()
		record := &vaultDomain.KeyRecord{ID: id, OwnerID: alice.UserID}
		f.keyRecordRepo.On("Get", ctx, id).Return(record, nil).Once()

		got, err := f.useCase.GetKeyRecord(ctx, alice, id)
		require.NoError(t, err)
		assert.Equal(t, record, got)
	})

	t.Run("Another user", func(t *testing.T) {
		f := newVaultFixture()
		f.keyRecordRepo.On("Get", ctx, id).Return(&vaultDomain.KeyRecord{ID: id, OwnerID: uuid.New()}, nil).Once()

		_, err := f.useCase.GetKeyRecord(ctx, alice, id)
		assert.ErrorIs(t, err, vaultDomain.ErrKeyRecordNotFound)
	})
}

func TestVaultUseCase_ListRecords(t *testing.T) {
	ctx := context.Background()
	alice := principal("alice")

	f := newVaultFixture()
	doc := documentOwnedBy(1, "alice")
	present := &vaultDomain.KeyRecord{ID: uuid.New(), ContentDocumentID: doc.ID}
	orphan := &vaultDomain.KeyRecord{ID: uuid.New(), ContentDocumentID: uuid.New()}

	f.keyRecordRepo.On("ListByOwner", ctx, alice.UserID).
		Return([]*vaultDomain.KeyRecord{present, orphan}, nil).
		Once()
	f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()
	f.documentRepo.On("Get", ctx, orphan.ContentDocumentID).Return(nil, vaultDomain.ErrDocumentNotFound).Once()

	records, err := f.useCase.ListRecords(ctx, alice)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, doc, records[0].Document)
	assert.Equal(t, orphan, records[1].KeyRecord)
	assert.Nil(t, records[1].Document)
	f.assertExpectations(t)
}

func TestVaultUseCase_GetDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(3, "alice", "bob")
		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()

		got, err := f.useCase.GetDocument(ctx, principal("bob"), doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	})

	t.Run("Not an owner", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(1, "alice")
		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()

		_, err := f.useCase.GetDocument(ctx, principal("mallory"), doc.ID)
		assert.ErrorIs(t, err, vaultDomain.ErrDocumentNotFound)
	})

	t.Run("Ownerless document", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(1)
		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()

		_, err := f.useCase.GetDocument(ctx, principal("alice"), doc.ID)
		assert.ErrorIs(t, err, apperrors.ErrCorruption)
	})
}

func TestVaultUseCase_UpdateDocument(t *testing.T) {
	ctx := context.Background()
	alice := principal("alice")

	t.Run("Success with name", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(4, "alice")
		fields := encodedFields(t)
		name := ciphertext(9)

		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()
		f.documentRepo.On("UpdateFields", ctx, doc.ID, fields, int64(4), mock.Anything).Return(nil).Once()
		f.keyRecordRepo.On("UpdateNameByDocument", ctx, doc.ID, name).Return(nil).Once()

		updated, err := f.useCase.UpdateDocument(ctx, alice, doc.ID, &vaultDomain.UpdateDocumentInput{
			EncryptedFields: fields,
			Name:            name,
			ExpectedVersion: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), updated.Version)
		assert.Equal(t, fields, updated.EncryptedFields)
		f.assertExpectations(t)
	})

	t.Run("Stale version", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(6, "alice")
		fields := encodedFields(t)

		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()
		f.documentRepo.On("UpdateFields", ctx, doc.ID, fields, int64(5), mock.Anything).
			Return(vaultDomain.ErrVersionConflict).
			Once()

		_, err := f.useCase.UpdateDocument(ctx, alice, doc.ID, &vaultDomain.UpdateDocumentInput{
			EncryptedFields: fields,
			ExpectedVersion: 5,
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		f.keyRecordRepo.AssertNotCalled(t, "UpdateNameByDocument", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Not an owner", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(1, "bob")
		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()

		_, err := f.useCase.UpdateDocument(ctx, alice, doc.ID, &vaultDomain.UpdateDocumentInput{
			EncryptedFields: encodedFields(t),
			ExpectedVersion: 1,
		})
		assert.ErrorIs(t, err, vaultDomain.ErrDocumentNotFound)
	})
}

func TestVaultUseCase_AddOwner(t *testing.T) {
	ctx := context.Background()
	bob := principal("bob")
	input := &vaultDomain.AddOwnerInput{Name: ciphertext(5), WrappedContentKey: wrappedContentKey()}

	ownersWithBob := func(n int) any {
		return mock.MatchedBy(func(owners []vaultDomain.Owner) bool {
			return len(owners) == n && owners[n-1].Username == "bob"
		})
	}

	t.Run("Success", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(2, "alice")

		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()
		f.documentRepo.On("UpdateOwners", ctx, doc.ID, ownersWithBob(2), int64(2), mock.Anything).Return(nil).Once()
		f.keyRecordRepo.On("Create", ctx, mock.MatchedBy(func(record *vaultDomain.KeyRecord) bool {
			return record.OwnerID == bob.UserID && record.ContentDocumentID == doc.ID
		})).Return(nil).Once()

		record, err := f.useCase.AddOwner(ctx, bob, doc.ID, input)
		require.NoError(t, err)
		assert.Equal(t, int64(3), record.Document.Version)
		owner, ok := record.Document.Owner("bob")
		require.True(t, ok)
		assert.Equal(t, record.KeyRecord.ID, owner.KeyRecordID)
		f.assertExpectations(t)
	})

	t.Run("Already owner", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(2, "alice", "bob")
		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()

		_, err := f.useCase.AddOwner(ctx, bob, doc.ID, input)
		assert.ErrorIs(t, err, vaultDomain.ErrAlreadyOwner)
		f.documentRepo.AssertNotCalled(t, "UpdateOwners", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Retries after concurrent change", func(t *testing.T) {
		f := newVaultFixture()
		stale := documentOwnedBy(2, "alice")
		fresh := &vaultDomain.ContentDocument{
			ID:      stale.ID,
			Kind:    stale.Kind,
			Owners:  append(stale.Owners, vaultDomain.Owner{Username: "carol", KeyRecordID: uuid.New()}),
			Version: 3,
		}

		f.documentRepo.On("Get", ctx, stale.ID).Return(stale, nil).Once()
		f.documentRepo.On("UpdateOwners", ctx, stale.ID, ownersWithBob(2), int64(2), mock.Anything).
			Return(vaultDomain.ErrVersionConflict).
			Once()
		f.documentRepo.On("Get", ctx, stale.ID).Return(fresh, nil).Once()
		f.documentRepo.On("UpdateOwners", ctx, stale.ID, ownersWithBob(3), int64(3), mock.Anything).
			Return(nil).
			Once()
		f.keyRecordRepo.On("Create", ctx, mock.AnythingOfType("*domain.KeyRecord")).Return(nil).Once()

		record, err := f.useCase.AddOwner(ctx, bob, stale.ID, input)
		require.NoError(t, err)
		assert.Len(t, record.Document.Owners, 3)
		f.assertExpectations(t)
	})

	t.Run("Gives up after repeated conflicts", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(2, "alice")

		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Times(3)
		f.documentRepo.On("UpdateOwners", ctx, doc.ID, mock.Anything, int64(2), mock.Anything).
			Return(vaultDomain.ErrVersionConflict).
			Times(3)

		_, err := f.useCase.AddOwner(ctx, bob, doc.ID, input)
		assert.ErrorIs(t, err, vaultDomain.ErrVersionConflict)
		f.assertExpectations(t)
		f.keyRecordRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Malformed wrapped key", func(t *testing.T) {
		f := newVaultFixture()

		_, err := f.useCase.AddOwner(ctx, bob, uuid.New(), &vaultDomain.AddOwnerInput{
			Name:              ciphertext(5),
			WrappedContentKey: []byte{1},
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestVaultUseCase_RemoveOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes another owner", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(5, "alice", "bob")
		bobRecordID := doc.Owners[1].KeyRecordID

		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()
		f.documentRepo.On("UpdateOwners", ctx, doc.ID, []vaultDomain.Owner{doc.Owners[0]}, int64(5), mock.Anything).
			Return(nil).
			Once()
		f.keyRecordRepo.On("Delete", ctx, bobRecordID).Return(nil).Once()

		err := f.useCase.RemoveOwner(ctx, principal("alice"), doc.ID, "Bob")
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("Last owner deletes the document", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(8, "alice")

		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()
		f.documentRepo.On("Delete", ctx, doc.ID, int64(8)).Return(nil).Once()

		err := f.useCase.RemoveOwner(ctx, principal("alice"), doc.ID, "alice")
		require.NoError(t, err)
		f.assertExpectations(t)
		f.keyRecordRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Caller is not an owner", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(1, "alice")
		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()

		err := f.useCase.RemoveOwner(ctx, principal("mallory"), doc.ID, "alice")
		assert.ErrorIs(t, err, vaultDomain.ErrDocumentNotFound)
	})

	t.Run("Target is not an owner", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(1, "alice")
		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()

		err := f.useCase.RemoveOwner(ctx, principal("alice"), doc.ID, "bob")
		assert.ErrorIs(t, err, vaultDomain.ErrOwnerNotFound)
	})

	t.Run("Missing key record is corruption", func(t *testing.T) {
		f := newVaultFixture()
		doc := documentOwnedBy(2, "alice", "bob")

		f.documentRepo.On("Get", ctx, doc.ID).Return(doc, nil).Once()
		f.documentRepo.On("UpdateOwners", ctx, doc.ID, mock.Anything, int64(2), mock.Anything).Return(nil).Once()
		f.keyRecordRepo.On("Delete", ctx, doc.Owners[1].KeyRecordID).Return(vaultDomain.ErrKeyRecordNotFound).Once()

		err := f.useCase.RemoveOwner(ctx, principal("alice"), doc.ID, "bob")
		assert.ErrorIs(t, err, apperrors.ErrCorruption)
	})
}
