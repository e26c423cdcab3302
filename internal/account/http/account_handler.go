// Package http provides HTTP handlers for account registration, login and
// credential rotation.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	"github.com/allisson/passbox/internal/account/http/dto"
	accountUseCase "github.com/allisson/passbox/internal/account/usecase"
	authHTTP "github.com/allisson/passbox/internal/auth/http"
	"github.com/allisson/passbox/internal/httputil"
	customValidation "github.com/allisson/passbox/internal/validation"
)

// AccountHandler handles HTTP requests for account operations.
type AccountHandler struct {
	accountUseCase accountUseCase.AccountUseCase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(useCase accountUseCase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: useCase,
		logger:         logger,
	}
}

// RegisterHandler creates an account.
// POST /v1/accounts - Public.
// Returns 201 Created with the account.
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	user, err := h.accountUseCase.Register(c.Request.Context(), &accountDomain.Registration{
		Username:   req.Username,
		Enrollment: req.ToDomain(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserToResponse(user))
}

// PreLoginHandler returns the KDF parameters of a username.
// POST /v1/accounts/prelogin - Public.
// Unknown usernames receive decoy parameters, so the response never reveals
// whether an account exists.
func (h *AccountHandler) PreLoginHandler(c *gin.Context) {
	var req dto.PreLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	params, err := h.accountUseCase.PreLogin(c.Request.Context(), req.Username)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKDFParamsToResponse(params))
}

// LoginHandler verifies an authenticator and issues a bearer token.
// POST /v1/token - Public.
// Returns 201 Created with the token and the wrapped master key material.
func (h *AccountHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.accountUseCase.Login(c.Request.Context(), req.Username, req.Authenticator)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapLoginResultToResponse(result))
}

// LogoutHandler revokes the token that authenticated the request.
// DELETE /v1/token - Authenticated.
// Returns 204 No Content.
func (h *AccountHandler) LogoutHandler(c *gin.Context) {
	if _, ok := authHTTP.RequirePrincipal(c, h.logger); !ok {
		return
	}
	tokenHash, _ := authHTTP.GetTokenHash(c.Request.Context())

	if err := h.accountUseCase.Logout(c.Request.Context(), tokenHash); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ChangeCredentialsHandler replaces the authenticator and key material of the
// caller. Every other session of the caller is revoked.
// PUT /v1/accounts/credentials - Authenticated.
// Returns 204 No Content.
func (h *AccountHandler) ChangeCredentialsHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.ChangeCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	tokenHash, _ := authHTTP.GetTokenHash(c.Request.Context())
	err := h.accountUseCase.ChangeCredentials(c.Request.Context(), principal.UserID, &accountDomain.CredentialChange{
		OldAuthenticator: req.OldAuthenticator,
		Enrollment:       req.ToDomain(),
		CurrentTokenHash: tokenHash,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
