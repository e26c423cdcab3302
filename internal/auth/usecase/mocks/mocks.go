// Package mocks provides mock implementations of the auth use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	authDomain "github.com/allisson/passbox/internal/auth/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method of TokenUseCase.
func (m *MockTokenUseCase) Issue(ctx context.Context, userID uuid.UUID) (*authDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueTokenOutput), args.Error(1)
}

// Authenticate mocks the Authenticate method of TokenUseCase.
func (m *MockTokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Principal, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

// Revoke mocks the Revoke method of TokenUseCase.
func (m *MockTokenUseCase) Revoke(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

// RevokeAllForUser mocks the RevokeAllForUser method of TokenUseCase.
func (m *MockTokenUseCase) RevokeAllForUser(ctx context.Context, userID uuid.UUID, exceptTokenHash string) error {
	args := m.Called(ctx, userID, exceptTokenHash)
	return args.Error(0)
}

// CleanupExpired mocks the CleanupExpired method of TokenUseCase.
func (m *MockTokenUseCase) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenRepository is a mock implementation of TokenRepository for testing.
type MockTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method of TokenRepository.
func (m *MockTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// GetByTokenHash mocks the GetByTokenHash method of TokenRepository.
func (m *MockTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

// Revoke mocks the Revoke method of TokenRepository.
func (m *MockTokenRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenHash, revokedAt)
	return args.Error(0)
}

// RevokeAllForUser mocks the RevokeAllForUser method of TokenRepository.
func (m *MockTokenRepository) RevokeAllForUser(
	ctx context.Context,
	userID uuid.UUID,
	exceptTokenHash string,
	revokedAt time.Time,
) error {
	args := m.Called(ctx, userID, exceptTokenHash, revokedAt)
	return args.Error(0)
}

// DeleteExpired mocks the DeleteExpired method of TokenRepository.
func (m *MockTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository for testing.
type MockUserRepository struct {
	mock.Mock
}

// Get mocks the Get method of UserRepository.
func (m *MockUserRepository) Get(ctx context.Context, userID uuid.UUID) (*accountDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountDomain.User), args.Error(1)
}

// MockTokenService is a mock implementation of TokenService for testing.
type MockTokenService struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method of TokenService.
func (m *MockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// HashToken mocks the HashToken method of TokenService.
func (m *MockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}
