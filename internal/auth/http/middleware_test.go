package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	authService "github.com/allisson/passbox/internal/auth/service"
	"github.com/allisson/passbox/internal/auth/usecase/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupAuthRouter(tokenUseCase *mocks.MockTokenUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthenticationMiddleware(tokenUseCase, authService.NewTokenService(), discardLogger()))
	router.GET("/whoami", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		tokenHash, _ := GetTokenHash(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"username": principal.Username, "token_hash": tokenHash})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	tokenService := authService.NewTokenService()
	principal := &authDomain.Principal{UserID: uuid.Must(uuid.NewV7()), Username: "alice"}

	t.Run("Success_ValidToken", func(t *testing.T) {
		tokenUseCase := &mocks.MockTokenUseCase{}
		router := setupAuthRouter(tokenUseCase)
		expectedHash := tokenService.HashToken("pbx_token")
		tokenUseCase.On("Authenticate", mock.Anything, expectedHash).Return(principal, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer pbx_token")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, expectedHash, body["token_hash"])
		tokenUseCase.AssertExpectations(t)
	})

	t.Run("Success_CaseInsensitiveScheme", func(t *testing.T) {
		tokenUseCase := &mocks.MockTokenUseCase{}
		router := setupAuthRouter(tokenUseCase)
		tokenUseCase.On("Authenticate", mock.Anything, mock.Anything).Return(principal, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "bEaReR pbx_token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	headers := map[string]string{
		"Error_MissingHeader": "",
		"Error_WrongScheme":   "Basic dXNlcjpwYXNz",
		"Error_EmptyToken":    "Bearer   ",
	}
	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			tokenUseCase := &mocks.MockTokenUseCase{}
			router := setupAuthRouter(tokenUseCase)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			tokenUseCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
		})
	}

	t.Run("Error_InvalidToken", func(t *testing.T) {
		tokenUseCase := &mocks.MockTokenUseCase{}
		router := setupAuthRouter(tokenUseCase)
		tokenUseCase.On("Authenticate", mock.Anything, mock.Anything).Return(nil, authDomain.ErrInvalidToken).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer pbx_expired")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetPrincipal(ctx)
	assert.False(t, ok)
	_, ok = GetTokenHash(ctx)
	assert.False(t, ok)

	principal := &authDomain.Principal{UserID: uuid.New(), Username: "bob"}
	ctx = WithTokenHash(WithPrincipal(ctx, principal), "hash")

	got, ok := GetPrincipal(ctx)
	require.True(t, ok)
	assert.Same(t, principal, got)

	hash, ok := GetTokenHash(ctx)
	require.True(t, ok)
	assert.Equal(t, "hash", hash)
}

func TestRequirePrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		_, ok := RequirePrincipal(c, discardLogger())
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Present", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		principal := &authDomain.Principal{UserID: uuid.New(), Username: "bob"}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request = req.WithContext(WithPrincipal(req.Context(), principal))

		got, ok := RequirePrincipal(c, discardLogger())
		require.True(t, ok)
		assert.Same(t, principal, got)
	})
}
