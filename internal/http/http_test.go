package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accountHTTP "github.com/allisson/passbox/internal/account/http"
	accountMocks "github.com/allisson/passbox/internal/account/usecase/mocks"
	authDomain "github.com/allisson/passbox/internal/auth/domain"
	authService "github.com/allisson/passbox/internal/auth/service"
	authMocks "github.com/allisson/passbox/internal/auth/usecase/mocks"
	"github.com/allisson/passbox/internal/config"
	"github.com/allisson/passbox/internal/metrics"
	sharingHTTP "github.com/allisson/passbox/internal/sharing/http"
	sharingMocks "github.com/allisson/passbox/internal/sharing/usecase/mocks"
	"github.com/allisson/passbox/internal/testutil"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
	vaultHTTP "github.com/allisson/passbox/internal/vault/http"
	vaultMocks "github.com/allisson/passbox/internal/vault/usecase/mocks"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestServer() *Server {
	return NewServer(nil, "localhost", 8080, discardLogger())
}

type routerMocks struct {
	tokens  *authMocks.MockTokenUseCase
	vault   *vaultMocks.MockVaultUseCase
	sharing *sharingMocks.MockSharingUseCase
}

func createFullRouter(t *testing.T, cfg *config.Config) (*Server, *routerMocks) {
	t.Helper()
	logger := discardLogger()
	server := createTestServer()
	t.Cleanup(server.cancel)

	m := &routerMocks{
		tokens:  &authMocks.MockTokenUseCase{},
		vault:   &vaultMocks.MockVaultUseCase{},
		sharing: &sharingMocks.MockSharingUseCase{},
	}
	server.SetupRouter(
		cfg,
		accountHTTP.NewAccountHandler(&accountMocks.MockAccountUseCase{}, logger),
		vaultHTTP.NewVaultHandler(m.vault, logger),
		sharingHTTP.NewSharingHandler(m.sharing, logger),
		m.tokens,
		authService.NewTokenService(),
		nil,
	)
	return server, m
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessHandler(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		server := createTestServer()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])
		components, ok := response["components"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "error", components["database"])
	})

	t.Run("database reachable", func(t *testing.T) {
		server := NewServer(testutil.SetupSQLiteDB(t), "localhost", 8080, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ready"`)
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return "req-1"
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), "status=200")
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_PublicAndPrivateRoutes(t *testing.T) {
	cfg := &config.Config{}
	server, m := createFullRouter(t, cfg)
	handler := server.GetHandler()

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/records", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		m.tokens.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, authDomain.ErrInvalidToken).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/records", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		principal := &authDomain.Principal{UserID: uuid.Must(uuid.NewV7()), Username: "alice"}
		m.tokens.On("Authenticate", mock.Anything, mock.Anything).Return(principal, nil).Once()
		m.vault.On("ListRecords", mock.Anything, principal).Return([]*vaultDomain.Record{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/records", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no metrics endpoint", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	m.tokens.AssertExpectations(t)
	m.vault.AssertExpectations(t)
}

func TestRouter_IPRateLimit(t *testing.T) {
	cfg := &config.Config{
		RateLimitIPEnabled:        true,
		RateLimitIPRequestsPerSec: 0.001,
		RateLimitIPBurst:          1,
	}
	server, _ := createFullRouter(t, cfg)
	handler := server.GetHandler()

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/v1/accounts/prelogin", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())
	server.router = gin.New()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Error(t, server.ctx.Err())
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
