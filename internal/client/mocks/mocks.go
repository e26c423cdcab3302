// Package mocks provides mock implementations of the client backend interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	"github.com/allisson/passbox/internal/client"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// MockAccountBackend is a mock implementation of client.AccountBackend for testing.
type MockAccountBackend struct {
	mock.Mock
}

// Register mocks the Register method of AccountBackend.
func (m *MockAccountBackend) Register(ctx context.Context, registration *accountDomain.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

// PreLogin mocks the PreLogin method of AccountBackend.
func (m *MockAccountBackend) PreLogin(ctx context.Context, username string) (*accountDomain.KDFParams, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.KDFParams), args.Error(1)
}

// Login mocks the Login method of AccountBackend.
func (m *MockAccountBackend) Login(
	ctx context.Context,
	username string,
	authenticator []byte,
) (*client.Credentials, error) {
	args := m.Called(ctx, username, authenticator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Credentials), args.Error(1)
}

// Open mocks the Open method of AccountBackend.
func (m *MockAccountBackend) Open(ctx context.Context, token string) (client.Backend, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(client.Backend), args.Error(1)
}

// MockBackend is a mock implementation of client.Backend for testing.
type MockBackend struct {
	mock.Mock
}

// Logout mocks the Logout method of Backend.
func (m *MockBackend) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ChangeCredentials mocks the ChangeCredentials method of Backend.
func (m *MockBackend) ChangeCredentials(ctx context.Context, change *accountDomain.CredentialChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

// CreateRecord mocks the CreateRecord method of Backend.
func (m *MockBackend) CreateRecord(
	ctx context.Context,
	input *vaultDomain.CreateRecordInput,
) (*vaultDomain.Record, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Record), args.Error(1)
}

// GetKeyRecord mocks the GetKeyRecord method of Backend.
func (m *MockBackend) GetKeyRecord(ctx context.Context, id uuid.UUID) (*vaultDomain.KeyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.KeyRecord), args.Error(1)
}

// ListRecords mocks the ListRecords method of Backend.
func (m *MockBackend) ListRecords(ctx context.Context) ([]*vaultDomain.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Record), args.Error(1)
}

// GetDocument mocks the GetDocument method of Backend.
func (m *MockBackend) GetDocument(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ContentDocument), args.Error(1)
}

// UpdateDocument mocks the UpdateDocument method of Backend.
func (m *MockBackend) UpdateDocument(
	ctx context.Context,
	id uuid.UUID,
	input *vaultDomain.UpdateDocumentInput,
) (*vaultDomain.ContentDocument, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ContentDocument), args.Error(1)
}

// RemoveOwner mocks the RemoveOwner method of Backend.
func (m *MockBackend) RemoveOwner(ctx context.Context, documentID uuid.UUID, username string) error {
	args := m.Called(ctx, documentID, username)
	return args.Error(0)
}

// CreateShare mocks the CreateShare method of Backend.
func (m *MockBackend) CreateShare(
	ctx context.Context,
	input *sharingDomain.CreateShareInput,
) (*sharingDomain.Share, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.Share), args.Error(1)
}

// GetShare mocks the GetShare method of Backend.
func (m *MockBackend) GetShare(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.Share), args.Error(1)
}

// AcceptShare mocks the AcceptShare method of Backend.
func (m *MockBackend) AcceptShare(
	ctx context.Context,
	id uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Record), args.Error(1)
}

// DeleteShare mocks the DeleteShare method of Backend.
func (m *MockBackend) DeleteShare(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
