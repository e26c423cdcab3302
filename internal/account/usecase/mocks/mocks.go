// Package mocks provides mock implementations of the account use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
)

// MockAccountUseCase is a mock implementation of AccountUseCase for testing.
type MockAccountUseCase struct {
	mock.Mock
}

// Register mocks the Register method of AccountUseCase.
func (m *MockAccountUseCase) Register(
	ctx context.Context,
	registration *accountDomain.Registration,
) (*accountDomain.User, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.User), args.Error(1)
}

// PreLogin mocks the PreLogin method of AccountUseCase.
func (m *MockAccountUseCase) PreLogin(ctx context.Context, username string) (*accountDomain.KDFParams, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.KDFParams), args.Error(1)
}

// Login mocks the Login method of AccountUseCase.
func (m *MockAccountUseCase) Login(
	ctx context.Context,
	username string,
	authenticator []byte,
) (*accountDomain.LoginResult, error) {
	args := m.Called(ctx, username, authenticator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.LoginResult), args.Error(1)
}

// ChangeCredentials mocks the ChangeCredentials method of AccountUseCase.
func (m *MockAccountUseCase) ChangeCredentials(
	ctx context.Context,
	userID uuid.UUID,
	change *accountDomain.CredentialChange,
) error {
	args := m.Called(ctx, userID, change)
	return args.Error(0)
}

// Logout mocks the Logout method of AccountUseCase.
func (m *MockAccountUseCase) Logout(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository for testing.
type MockUserRepository struct {
	mock.Mock
}

// Create mocks the Create method of UserRepository.
func (m *MockUserRepository) Create(ctx context.Context, user *accountDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Get mocks the Get method of UserRepository.
func (m *MockUserRepository) Get(ctx context.Context, id uuid.UUID) (*accountDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.User), args.Error(1)
}

// GetByUsername mocks the GetByUsername method of UserRepository.
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*accountDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.User), args.Error(1)
}

// UpdateCredentials mocks the UpdateCredentials method of UserRepository.
func (m *MockUserRepository) UpdateCredentials(ctx context.Context, user *accountDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockSecretService is a mock implementation of the auth SecretService for testing.
type MockSecretService struct {
	mock.Mock
}

// HashSecret mocks the HashSecret method of SecretService.
func (m *MockSecretService) HashSecret(authenticator []byte) (string, error) {
	args := m.Called(authenticator)
	return args.String(0), args.Error(1)
}

// CompareSecret mocks the CompareSecret method of SecretService.
func (m *MockSecretService) CompareSecret(authenticator []byte, hashed string) bool {
	args := m.Called(authenticator, hashed)
	return args.Bool(0)
}

// CompareDummy mocks the CompareDummy method of SecretService.
func (m *MockSecretService) CompareDummy(authenticator []byte) bool {
	args := m.Called(authenticator)
	return args.Bool(0)
}
