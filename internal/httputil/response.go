// Package httputil writes API error responses. The error code in the body is
// the category code from internal/errors, which lets the remote client rebuild
// the category.
package httputil

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/passbox/internal/errors"
)

// Codes used only at the HTTP layer.
const (
	CodeBadRequest      = "bad_request"
	CodeValidationError = "validation_error"
	CodeRateLimited     = "rate_limit_exceeded"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type errorMapping struct {
	status  int
	message string
}

// mappings holds the status and public message per category code. An empty
// message means the error text itself is safe to return.
var mappings = map[string]errorMapping{
	apperrors.CodeNotFound:      {http.StatusNotFound, "The requested resource was not found"},
	apperrors.CodeConflict:      {http.StatusConflict, ""},
	apperrors.CodeInvalidInput:  {http.StatusUnprocessableEntity, ""},
	apperrors.CodeUnauthorized:  {http.StatusUnauthorized, "Authentication is required"},
	apperrors.CodeForbidden:     {http.StatusForbidden, "You don't have permission to access this resource"},
	apperrors.CodeCryptoFailure: {http.StatusUnprocessableEntity, "The encrypted payload could not be processed"},
	apperrors.CodeCorruption:    {http.StatusInternalServerError, "Stored data is inconsistent"},
	apperrors.CodeInternal:      {http.StatusInternalServerError, "An internal error occurred"},
}

// HandleErrorGin writes the response for err by its category. Server errors
// are logged at error level, client errors at debug.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	code := apperrors.Code(err)
	mapping := mappings[code]
	message := mapping.message
	if message == "" {
		message = err.Error()
	}

	if logger != nil {
		level := slog.LevelDebug
		if mapping.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		ctx, requestID := requestScope(c)
		logger.Log(ctx, level, "request failed",
			slog.Int("status_code", mapping.status),
			slog.String("error_code", code),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
	}

	c.JSON(mapping.status, ErrorResponse{Error: code, Message: message})
}

// requestScope returns the request context and id. Contexts built without a
// request, as in handler unit tests, get a background context and no id.
func requestScope(c *gin.Context) (context.Context, string) {
	if c.Request == nil {
		return context.Background(), ""
	}
	return c.Request.Context(), requestid.Get(c)
}

// HandleBadRequestGin answers 400 for malformed JSON, ids or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Debug("bad request", slog.Any("error", err))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: CodeBadRequest, Message: err.Error()})
}

// HandleValidationErrorGin answers 422 for DTOs that fail validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Debug("validation failed", slog.Any("error", err))
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: CodeValidationError, Message: err.Error()})
}
