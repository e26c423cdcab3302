package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	"github.com/allisson/passbox/internal/account/http/dto"
	"github.com/allisson/passbox/internal/account/usecase/mocks"
	authDomain "github.com/allisson/passbox/internal/auth/domain"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	apperrors "github.com/allisson/passbox/internal/errors"
)

func setupTestHandler() (*AccountHandler, *mocks.MockAccountUseCase) {
	useCase := &mocks.MockAccountUseCase{}
	return NewAccountHandler(useCase, discardLogger()), useCase
}

func validEnrollmentRequest() dto.EnrollmentRequest {
	return dto.EnrollmentRequest{
		Authenticator:    bytes.Repeat([]byte{1}, cryptoDomain.KeySize),
		WrappedMasterKey: bytes.Repeat([]byte{2}, accountDomain.WrappedMasterKeySize),
		Salt:             bytes.Repeat([]byte{3}, cryptoDomain.SaltSize),
		Iterations:       cryptoDomain.DefaultIterations,
	}
}

func TestAccountHandler_RegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		userID := uuid.Must(uuid.NewV7())
		req := dto.RegisterRequest{Username: "alice", EnrollmentRequest: validEnrollmentRequest()}

		useCase.On("Register", mock.Anything, mock.MatchedBy(func(r *accountDomain.Registration) bool {
			return r.Username == "alice" &&
				bytes.Equal(r.Enrollment.Authenticator, req.Authenticator) &&
				r.Enrollment.Iterations == cryptoDomain.DefaultIterations
		})).Return(&accountDomain.User{ID: userID, Username: "alice"}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/accounts", req, nil, "")
		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, userID.String(), response.ID)
		assert.Equal(t, "alice", response.Username)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/v1/accounts", "{not json", nil, "")
		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_ValidationFailed", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		enrollment := validEnrollmentRequest()
		enrollment.Iterations = 1000

		c, w := createTestContext(http.MethodPost, "/v1/accounts",
			dto.RegisterRequest{Username: "alice", EnrollmentRequest: enrollment}, nil, "")
		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		useCase.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Error_Conflict", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		useCase.On("Register", mock.Anything, mock.Anything).Return(nil, accountDomain.ErrUserAlreadyExists).Once()

		c, w := createTestContext(http.MethodPost, "/v1/accounts",
			dto.RegisterRequest{Username: "alice", EnrollmentRequest: validEnrollmentRequest()}, nil, "")
		handler.RegisterHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAccountHandler_PreLoginHandler(t *testing.T) {
	handler, useCase := setupTestHandler()
	salt := bytes.Repeat([]byte{5}, cryptoDomain.SaltSize)
	useCase.On("PreLogin", mock.Anything, "alice").
		Return(&accountDomain.KDFParams{Salt: salt, Iterations: 300_000}, nil).
		Once()

	c, w := createTestContext(http.MethodPost, "/v1/accounts/prelogin", dto.PreLoginRequest{Username: "alice"}, nil, "")
	handler.PreLoginHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response dto.KDFParamsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, salt, response.Salt)
	assert.Equal(t, 300_000, response.Iterations)
}

func TestAccountHandler_LoginHandler(t *testing.T) {
	authenticator := bytes.Repeat([]byte{7}, cryptoDomain.KeySize)

	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		user := &accountDomain.User{
			ID:               uuid.Must(uuid.NewV7()),
			Username:         "alice",
			WrappedMasterKey: []byte("wrapped"),
			MasterKeySalt:    []byte("salt"),
			KDFIterations:    cryptoDomain.DefaultIterations,
		}
		useCase.On("Login", mock.Anything, "alice", authenticator).Return(&accountDomain.LoginResult{
			User:       user,
			PlainToken: "pbx_token",
			ExpiresAt:  time.Now().Add(time.Hour),
		}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/token",
			dto.LoginRequest{Username: "alice", Authenticator: authenticator}, nil, "")
		handler.LoginHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "pbx_token", response.Token)
		assert.Equal(t, []byte("wrapped"), response.WrappedMasterKey)
		assert.Equal(t, []byte("salt"), response.KDFParams.Salt)
		assert.Equal(t, "alice", response.User.Username)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		useCase.On("Login", mock.Anything, "alice", authenticator).
			Return(nil, accountDomain.ErrInvalidCredentials).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/token",
			dto.LoginRequest{Username: "alice", Authenticator: authenticator}, nil, "")
		handler.LoginHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAccountHandler_LogoutHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		principal := &authDomain.Principal{UserID: uuid.New(), Username: "alice"}
		useCase.On("Logout", mock.Anything, "token-hash").Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/token", nil, principal, "token-hash")
		handler.LogoutHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		handler, useCase := setupTestHandler()

		c, w := createTestContext(http.MethodDelete, "/v1/token", nil, nil, "")
		handler.LogoutHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		useCase.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_ChangeCredentialsHandler(t *testing.T) {
	principal := &authDomain.Principal{UserID: uuid.New(), Username: "alice"}
	oldAuthenticator := bytes.Repeat([]byte{9}, cryptoDomain.KeySize)

	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		useCase.On("ChangeCredentials", mock.Anything, principal.UserID,
			mock.MatchedBy(func(change *accountDomain.CredentialChange) bool {
				return bytes.Equal(change.OldAuthenticator, oldAuthenticator) &&
					change.CurrentTokenHash == "token-hash"
			})).Return(nil).Once()

		req := dto.ChangeCredentialsRequest{OldAuthenticator: oldAuthenticator, EnrollmentRequest: validEnrollmentRequest()}
		c, w := createTestContext(http.MethodPut, "/v1/accounts/credentials", req, principal, "token-hash")
		handler.ChangeCredentialsHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		useCase.On("ChangeCredentials", mock.Anything, principal.UserID, mock.Anything).
			Return(apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials")).
			Once()

		req := dto.ChangeCredentialsRequest{OldAuthenticator: oldAuthenticator, EnrollmentRequest: validEnrollmentRequest()}
		c, w := createTestContext(http.MethodPut, "/v1/accounts/credentials", req, principal, "token-hash")
		handler.ChangeCredentialsHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
