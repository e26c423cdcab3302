// Package http provides the passbox API server and its router.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountHTTP "github.com/allisson/passbox/internal/account/http"
	authHTTP "github.com/allisson/passbox/internal/auth/http"
	authService "github.com/allisson/passbox/internal/auth/service"
	authUseCase "github.com/allisson/passbox/internal/auth/usecase"
	"github.com/allisson/passbox/internal/config"
	"github.com/allisson/passbox/internal/metrics"
	sharingHTTP "github.com/allisson/passbox/internal/sharing/http"
	vaultHTTP "github.com/allisson/passbox/internal/vault/http"
)

// Server is the passbox API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger

	// ctx bounds background work started by middlewares and ends on Shutdown.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server listening on host:port. db backs the readiness
// check and may be nil in tests.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		db:     db,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers every route of the API.
//
// Public (per-IP rate limited): POST /v1/accounts, POST /v1/accounts/prelogin,
// POST /v1/token. Everything else under /v1 requires a bearer token and is
// rate limited per user.
func (s *Server) SetupRouter(
	cfg *config.Config,
	accountHandler *accountHTTP.AccountHandler,
	vaultHandler *vaultHTTP.VaultHandler,
	sharingHandler *sharingHTTP.SharingHandler,
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	public := v1.Group("")
	if cfg.RateLimitIPEnabled {
		public.Use(authHTTP.IPRateLimitMiddleware(s.ctx, cfg.RateLimitIPRequestsPerSec, cfg.RateLimitIPBurst, s.logger))
	}
	public.POST("/accounts", accountHandler.RegisterHandler)
	public.POST("/accounts/prelogin", accountHandler.PreLoginHandler)
	public.POST("/token", accountHandler.LoginHandler)

	private := v1.Group("", authHTTP.AuthenticationMiddleware(tokenUseCase, tokenService, s.logger))
	if cfg.RateLimitEnabled {
		private.Use(authHTTP.RateLimitMiddleware(s.ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	private.DELETE("/token", accountHandler.LogoutHandler)
	private.PUT("/accounts/credentials", accountHandler.ChangeCredentialsHandler)

	private.POST("/records", vaultHandler.CreateRecordHandler)
	private.GET("/records", vaultHandler.ListRecordsHandler)
	private.GET("/records/:id", vaultHandler.GetKeyRecordHandler)
	private.GET("/documents/:id", vaultHandler.GetDocumentHandler)
	private.PUT("/documents/:id", vaultHandler.UpdateDocumentHandler)
	private.DELETE("/documents/:id/owners/:username", vaultHandler.RemoveOwnerHandler)

	private.POST("/shares", sharingHandler.CreateHandler)
	private.GET("/shares/:id", sharingHandler.GetHandler)
	private.POST("/shares/:id/accept", sharingHandler.AcceptHandler)
	private.DELETE("/shares/:id", sharingHandler.DeleteHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router
	return listenAndServe(s.server, "api", s.logger)
}

// listenAndServe blocks until srv is shut down.
func listenAndServe(srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("starting http server", slog.String("server", name), slog.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s server: %w", name, err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and stops middleware background work.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	defer s.cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
