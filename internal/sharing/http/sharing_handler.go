// Package http provides HTTP handlers for share offers.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/passbox/internal/auth/http"
	"github.com/allisson/passbox/internal/httputil"
	"github.com/allisson/passbox/internal/sharing/http/dto"
	sharingUseCase "github.com/allisson/passbox/internal/sharing/usecase"
	customValidation "github.com/allisson/passbox/internal/validation"
	vaultDTO "github.com/allisson/passbox/internal/vault/http/dto"
)

// SharingHandler handles HTTP requests for shares. Every endpoint requires
// authentication; knowing a share ID is the only other requirement to read,
// accept or decline it.
type SharingHandler struct {
	sharingUseCase sharingUseCase.SharingUseCase
	logger         *slog.Logger
}

// NewSharingHandler creates a new sharing handler.
func NewSharingHandler(useCase sharingUseCase.SharingUseCase, logger *slog.Logger) *SharingHandler {
	return &SharingHandler{
		sharingUseCase: useCase,
		logger:         logger,
	}
}

func (h *SharingHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid share ID format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// CreateHandler offers a document the caller owns.
// POST /v1/shares - Authenticated.
// Returns 201 Created with the share, 409 Conflict when one is already pending
// for the same receiver.
func (h *SharingHandler) CreateHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	share, err := h.sharingUseCase.Create(c.Request.Context(), principal, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapShareToResponse(share))
}

// GetHandler returns a pending share.
// GET /v1/shares/:id - Authenticated.
// Returns 200 OK with the share, 404 when it expired or was consumed.
func (h *SharingHandler) GetHandler(c *gin.Context) {
	if _, ok := authHTTP.RequirePrincipal(c, h.logger); !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	share, err := h.sharingUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapShareToResponse(share))
}

// AcceptHandler makes the caller an owner of the shared document.
// POST /v1/shares/:id/accept - Authenticated.
// Returns 201 Created with the caller's new record.
func (h *SharingHandler) AcceptHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.AcceptShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.sharingUseCase.Accept(c.Request.Context(), principal, id, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, vaultDTO.MapRecordToResponse(record))
}

// DeleteHandler declines or withdraws a share.
// DELETE /v1/shares/:id - Authenticated.
// Returns 204 No Content.
func (h *SharingHandler) DeleteHandler(c *gin.Context) {
	if _, ok := authHTTP.RequirePrincipal(c, h.logger); !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.sharingUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
