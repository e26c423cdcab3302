// Package mocks provides mock implementations of the vault use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// MockDocumentRepository is a mock implementation of DocumentRepository for testing.
type MockDocumentRepository struct {
	mock.Mock
}

// Create mocks the Create method of DocumentRepository.
func (m *MockDocumentRepository) Create(ctx context.Context, doc *vaultDomain.ContentDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// Get mocks the Get method of DocumentRepository.
func (m *MockDocumentRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ContentDocument), args.Error(1)
}

// UpdateFields mocks the UpdateFields method of DocumentRepository.
func (m *MockDocumentRepository) UpdateFields(
	ctx context.Context,
	id uuid.UUID,
	encryptedFields []byte,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	args := m.Called(ctx, id, encryptedFields, expectedVersion, updatedAt)
	return args.Error(0)
}

// UpdateOwners mocks the UpdateOwners method of DocumentRepository.
func (m *MockDocumentRepository) UpdateOwners(
	ctx context.Context,
	id uuid.UUID,
	owners []vaultDomain.Owner,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	args := m.Called(ctx, id, owners, expectedVersion, updatedAt)
	return args.Error(0)
}

// Delete mocks the Delete method of DocumentRepository.
func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	args := m.Called(ctx, id, expectedVersion)
	return args.Error(0)
}

// MockKeyRecordRepository is a mock implementation of KeyRecordRepository for testing.
type MockKeyRecordRepository struct {
	mock.Mock
}

// Create mocks the Create method of KeyRecordRepository.
func (m *MockKeyRecordRepository) Create(ctx context.Context, record *vaultDomain.KeyRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Get mocks the Get method of KeyRecordRepository.
func (m *MockKeyRecordRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.KeyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.KeyRecord), args.Error(1)
}

// ListByOwner mocks the ListByOwner method of KeyRecordRepository.
func (m *MockKeyRecordRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*vaultDomain.KeyRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.KeyRecord), args.Error(1)
}

// UpdateNameByDocument mocks the UpdateNameByDocument method of KeyRecordRepository.
func (m *MockKeyRecordRepository) UpdateNameByDocument(ctx context.Context, documentID uuid.UUID, name []byte) error {
	args := m.Called(ctx, documentID, name)
	return args.Error(0)
}

// Delete mocks the Delete method of KeyRecordRepository.
func (m *MockKeyRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

// Create mocks the Create method of VaultUseCase.
func (m *MockVaultUseCase) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input *vaultDomain.CreateRecordInput,
) (*vaultDomain.Record, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Record), args.Error(1)
}

// GetKeyRecord mocks the GetKeyRecord method of VaultUseCase.
func (m *MockVaultUseCase) GetKeyRecord(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
) (*vaultDomain.KeyRecord, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.KeyRecord), args.Error(1)
}

// ListRecords mocks the ListRecords method of VaultUseCase.
func (m *MockVaultUseCase) ListRecords(
	ctx context.Context,
	principal *authDomain.Principal,
) ([]*vaultDomain.Record, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Record), args.Error(1)
}

// GetDocument mocks the GetDocument method of VaultUseCase.
func (m *MockVaultUseCase) GetDocument(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
) (*vaultDomain.ContentDocument, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ContentDocument), args.Error(1)
}

// UpdateDocument mocks the UpdateDocument method of VaultUseCase.
func (m *MockVaultUseCase) UpdateDocument(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
	input *vaultDomain.UpdateDocumentInput,
) (*vaultDomain.ContentDocument, error) {
	args := m.Called(ctx, principal, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ContentDocument), args.Error(1)
}

// AddOwner mocks the AddOwner method of VaultUseCase.
func (m *MockVaultUseCase) AddOwner(
	ctx context.Context,
	principal *authDomain.Principal,
	documentID uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	args := m.Called(ctx, principal, documentID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Record), args.Error(1)
}

// RemoveOwner mocks the RemoveOwner method of VaultUseCase.
func (m *MockVaultUseCase) RemoveOwner(
	ctx context.Context,
	principal *authDomain.Principal,
	documentID uuid.UUID,
	username string,
) error {
	args := m.Called(ctx, principal, documentID, username)
	return args.Error(0)
}
