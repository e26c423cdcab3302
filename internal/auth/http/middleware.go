package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	authService "github.com/allisson/passbox/internal/auth/service"
	authUseCase "github.com/allisson/passbox/internal/auth/usecase"
	apperrors "github.com/allisson/passbox/internal/errors"
	"github.com/allisson/passbox/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware authenticates requests with a Bearer token in the
// Authorization header (the "bearer" scheme is matched case-insensitively).
//
// On success the principal and the token hash are stored in the request context
// and can be read with GetPrincipal and GetTokenHash. Missing, malformed, unknown,
// expired and revoked tokens all produce 401 Unauthorized.
//
// Usage:
//
//	v1 := router.Group("/v1", AuthenticationMiddleware(tokenUseCase, tokenService, logger))
//	v1.GET("/records", func(c *gin.Context) {
//	    principal, _ := GetPrincipal(c.Request.Context())
//	    // ...
//	})
func AuthenticationMiddleware(
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainToken, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		tokenHash := tokenService.HashToken(plainToken)

		principal, err := tokenUseCase.Authenticate(c.Request.Context(), tokenHash)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principal)
		ctx = WithTokenHash(ctx, tokenHash)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful", slog.String("user_id", principal.UserID.String()))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// RequirePrincipal returns the principal of an authenticated request. When the
// request carries none it writes 401 Unauthorized and returns false.
func RequirePrincipal(c *gin.Context, logger *slog.Logger) (*authDomain.Principal, bool) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return nil, false
	}
	return principal, true
}
