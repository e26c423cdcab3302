// Package mocks provides mock implementations of the sharing use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// MockShareRepository is a mock implementation of ShareRepository for testing.
type MockShareRepository struct {
	mock.Mock
}

// Create mocks the Create method of ShareRepository.
func (m *MockShareRepository) Create(ctx context.Context, share *sharingDomain.Share) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

// Get mocks the Get method of ShareRepository.
func (m *MockShareRepository) Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.Share), args.Error(1)
}

// Delete mocks the Delete method of ShareRepository.
func (m *MockShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteExpiredFor mocks the DeleteExpiredFor method of ShareRepository.
func (m *MockShareRepository) DeleteExpiredFor(
	ctx context.Context,
	documentID uuid.UUID,
	receiverTag string,
	now time.Time,
) error {
	args := m.Called(ctx, documentID, receiverTag, now)
	return args.Error(0)
}

// DeleteExpired mocks the DeleteExpired method of ShareRepository.
func (m *MockShareRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSharingUseCase is a mock implementation of SharingUseCase for testing.
type MockSharingUseCase struct {
	mock.Mock
}

// Create mocks the Create method of SharingUseCase.
func (m *MockSharingUseCase) Create(
	ctx context.Context,
	principal *authDomain.Principal,
	input *sharingDomain.CreateShareInput,
) (*sharingDomain.Share, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.Share), args.Error(1)
}

// Get mocks the Get method of SharingUseCase.
func (m *MockSharingUseCase) Get(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharingDomain.Share), args.Error(1)
}

// Accept mocks the Accept method of SharingUseCase.
func (m *MockSharingUseCase) Accept(
	ctx context.Context,
	principal *authDomain.Principal,
	id uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	args := m.Called(ctx, principal, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Record), args.Error(1)
}

// Delete mocks the Delete method of SharingUseCase.
func (m *MockSharingUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CleanExpired mocks the CleanExpired method of SharingUseCase.
func (m *MockSharingUseCase) CleanExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
