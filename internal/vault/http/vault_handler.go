// Package http provides HTTP handlers for records and content documents.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/passbox/internal/auth/http"
	"github.com/allisson/passbox/internal/httputil"
	customValidation "github.com/allisson/passbox/internal/validation"
	"github.com/allisson/passbox/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/passbox/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for records and documents. Owners are only
// added through share acceptance, so there is no endpoint for it here.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler.
func NewVaultHandler(useCase vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: useCase,
		logger:       logger,
	}
}

func (h *VaultHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid ID format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// CreateRecordHandler stores a new document and the caller's key record.
// POST /v1/records - Authenticated.
// Returns 201 Created with the record.
func (h *VaultHandler) CreateRecordHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.vaultUseCase.Create(c.Request.Context(), principal, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToResponse(record))
}

// ListRecordsHandler lists the caller's key records joined with their documents.
// GET /v1/records - Authenticated.
// Returns 200 OK with the records.
func (h *VaultHandler) ListRecordsHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}

	records, err := h.vaultUseCase.ListRecords(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordsToListResponse(records))
}

// GetKeyRecordHandler returns one of the caller's key records.
// GET /v1/records/:id - Authenticated.
// Returns 200 OK with the key record.
func (h *VaultHandler) GetKeyRecordHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	record, err := h.vaultUseCase.GetKeyRecord(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapKeyRecordToResponse(record))
}

// GetDocumentHandler returns a document the caller owns.
// GET /v1/documents/:id - Authenticated.
// Returns 200 OK with the document.
func (h *VaultHandler) GetDocumentHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	doc, err := h.vaultUseCase.GetDocument(c.Request.Context(), principal, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDocumentToResponse(doc))
}

// UpdateDocumentHandler replaces the fields of a document the caller owns.
// PUT /v1/documents/:id - Authenticated.
// Returns 200 OK with the updated document, 409 Conflict on a stale version.
func (h *VaultHandler) UpdateDocumentHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	doc, err := h.vaultUseCase.UpdateDocument(c.Request.Context(), principal, id, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDocumentToResponse(doc))
}

// RemoveOwnerHandler removes an owner from a document the caller owns.
// DELETE /v1/documents/:id/owners/:username - Authenticated.
// Returns 204 No Content.
func (h *VaultHandler) RemoveOwnerHandler(c *gin.Context) {
	principal, ok := authHTTP.RequirePrincipal(c, h.logger)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.vaultUseCase.RemoveOwner(c.Request.Context(), principal, id, c.Param("username")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
