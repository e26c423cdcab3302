package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/passbox/internal/auth/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
	"github.com/allisson/passbox/internal/vault/http/dto"
	"github.com/allisson/passbox/internal/vault/usecase/mocks"
)

var alice = &authDomain.Principal{UserID: uuid.New(), Username: "alice"}

func setupTestHandler() (*VaultHandler, *mocks.MockVaultUseCase) {
	useCase := &mocks.MockVaultUseCase{}
	return NewVaultHandler(useCase, discardLogger()), useCase
}

func idParam(id string) gin.Params {
	return gin.Params{{Key: "id", Value: id}}
}

func testRecord() *vaultDomain.Record {
	keyRecord := &vaultDomain.KeyRecord{
		ID:                uuid.New(),
		Name:              []byte("name"),
		WrappedContentKey: []byte("wrapped"),
		ContentDocumentID: uuid.New(),
		OwnerID:           alice.UserID,
		OwnerUsername:     "alice",
		Kind:              vaultDomain.KindCredential,
	}
	return &vaultDomain.Record{
		KeyRecord: keyRecord,
		Document: &vaultDomain.ContentDocument{
			ID:              keyRecord.ContentDocumentID,
			Kind:            vaultDomain.KindCredential,
			EncryptedFields: []byte("fields"),
			Owners:          []vaultDomain.Owner{{Username: "alice", KeyRecordID: keyRecord.ID}},
			Version:         1,
		},
	}
}

func TestVaultHandler_CreateRecordHandler(t *testing.T) {
	req := dto.CreateRecordRequest{
		Kind:              "credential",
		EncryptedFields:   []byte("fields"),
		Name:              []byte("name"),
		WrappedContentKey: []byte("wrapped"),
	}

	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		record := testRecord()
		useCase.On("Create", mock.Anything, alice, mock.MatchedBy(func(in *vaultDomain.CreateRecordInput) bool {
			return in.Kind == vaultDomain.KindCredential && string(in.EncryptedFields) == "fields"
		})).Return(record, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/records", req, alice, nil)
		handler.CreateRecordHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.RecordResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, record.KeyRecord.ID.String(), response.KeyRecord.ID)
		require.NotNil(t, response.Document)
		assert.Equal(t, []byte("fields"), response.Document.EncryptedFields)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		handler, useCase := setupTestHandler()

		c, w := createTestContext(http.MethodPost, "/v1/records", req, nil, nil)
		handler.CreateRecordHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		useCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_ValidationFailed", func(t *testing.T) {
		handler, _ := setupTestHandler()
		invalid := req
		invalid.Kind = "wallet"

		c, w := createTestContext(http.MethodPost, "/v1/records", invalid, alice, nil)
		handler.CreateRecordHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestVaultHandler_ListRecordsHandler(t *testing.T) {
	handler, useCase := setupTestHandler()
	orphan := &vaultDomain.Record{KeyRecord: testRecord().KeyRecord}
	useCase.On("ListRecords", mock.Anything, alice).
		Return([]*vaultDomain.Record{testRecord(), orphan}, nil).
		Once()

	c, w := createTestContext(http.MethodGet, "/v1/records", nil, alice, nil)
	handler.ListRecordsHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response dto.ListRecordsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 2)
	assert.NotNil(t, response.Data[0].Document)
	assert.Nil(t, response.Data[1].Document)
}

func TestVaultHandler_GetKeyRecordHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		record := testRecord().KeyRecord
		useCase.On("GetKeyRecord", mock.Anything, alice, record.ID).Return(record, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/records/"+record.ID.String(), nil, alice, idParam(record.ID.String()))
		handler.GetKeyRecordHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupTestHandler()

		c, w := createTestContext(http.MethodGet, "/v1/records/nope", nil, alice, idParam("nope"))
		handler.GetKeyRecordHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		id := uuid.New()
		useCase.On("GetKeyRecord", mock.Anything, alice, id).Return(nil, vaultDomain.ErrKeyRecordNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/records/"+id.String(), nil, alice, idParam(id.String()))
		handler.GetKeyRecordHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestVaultHandler_GetDocumentHandler(t *testing.T) {
	handler, useCase := setupTestHandler()
	doc := testRecord().Document
	useCase.On("GetDocument", mock.Anything, alice, doc.ID).Return(doc, nil).Once()

	c, w := createTestContext(http.MethodGet, "/v1/documents/"+doc.ID.String(), nil, alice, idParam(doc.ID.String()))
	handler.GetDocumentHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response dto.DocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, doc.ID.String(), response.ID)
	assert.Equal(t, int64(1), response.Version)
}

func TestVaultHandler_UpdateDocumentHandler(t *testing.T) {
	doc := testRecord().Document
	req := dto.UpdateDocumentRequest{EncryptedFields: []byte("new"), ExpectedVersion: 1}

	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		updated := *doc
		updated.Version = 2
		useCase.On("UpdateDocument", mock.Anything, alice, doc.ID, mock.MatchedBy(func(in *vaultDomain.UpdateDocumentInput) bool {
			return in.ExpectedVersion == 1 && string(in.EncryptedFields) == "new"
		})).Return(&updated, nil).Once()

		c, w := createTestContext(http.MethodPut, "/v1/documents/"+doc.ID.String(), req, alice, idParam(doc.ID.String()))
		handler.UpdateDocumentHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_Conflict", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		useCase.On("UpdateDocument", mock.Anything, alice, doc.ID, mock.Anything).
			Return(nil, vaultDomain.ErrVersionConflict).
			Once()

		c, w := createTestContext(http.MethodPut, "/v1/documents/"+doc.ID.String(), req, alice, idParam(doc.ID.String()))
		handler.UpdateDocumentHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestVaultHandler_RemoveOwnerHandler(t *testing.T) {
	id := uuid.New()
	params := gin.Params{{Key: "id", Value: id.String()}, {Key: "username", Value: "bob"}}

	t.Run("Success", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		useCase.On("RemoveOwner", mock.Anything, alice, id, "bob").Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/documents/"+id.String()+"/owners/bob", nil, alice, params)
		handler.RemoveOwnerHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_OwnerNotFound", func(t *testing.T) {
		handler, useCase := setupTestHandler()
		useCase.On("RemoveOwner", mock.Anything, alice, id, "bob").Return(vaultDomain.ErrOwnerNotFound).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/documents/"+id.String()+"/owners/bob", nil, alice, params)
		handler.RemoveOwnerHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
