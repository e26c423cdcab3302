package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	accountDTO "github.com/allisson/passbox/internal/account/http/dto"
	"github.com/allisson/passbox/internal/client"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	sharingDTO "github.com/allisson/passbox/internal/sharing/http/dto"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
	vaultDTO "github.com/allisson/passbox/internal/vault/http/dto"
)

// Accounts implements client.AccountBackend against a passbox server.
type Accounts struct {
	transport
}

// NewAccounts creates a remote account backend for the server at baseURL.
func NewAccounts(baseURL string, httpClient *retryablehttp.Client) *Accounts {
	return &Accounts{transport: transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}}
}

func enrollmentRequest(enrollment *accountDomain.Enrollment) accountDTO.EnrollmentRequest {
	return accountDTO.EnrollmentRequest{
		Authenticator:    enrollment.Authenticator,
		WrappedMasterKey: enrollment.WrappedMasterKey,
		Salt:             enrollment.Salt,
		Iterations:       enrollment.Iterations,
	}
}

func (a *Accounts) Register(ctx context.Context, registration *accountDomain.Registration) error {
	return a.do(ctx, http.MethodPost, "/v1/accounts", accountDTO.RegisterRequest{
		Username:          registration.Username,
		EnrollmentRequest: enrollmentRequest(&registration.Enrollment),
	}, nil)
}

func (a *Accounts) PreLogin(ctx context.Context, username string) (*accountDomain.KDFParams, error) {
	var resp accountDTO.KDFParamsResponse
	err := a.do(ctx, http.MethodPost, "/v1/accounts/prelogin", accountDTO.PreLoginRequest{Username: username}, &resp)
	if err != nil {
		return nil, err
	}
	return &accountDomain.KDFParams{Salt: resp.Salt, Iterations: resp.Iterations}, nil
}

func (a *Accounts) Login(ctx context.Context, username string, authenticator []byte) (*client.Credentials, error) {
	var resp accountDTO.LoginResponse
	err := a.do(ctx, http.MethodPost, "/v1/token", accountDTO.LoginRequest{
		Username:      username,
		Authenticator: authenticator,
	}, &resp)
	if err != nil {
		return nil, err
	}

	userID, err := parseID(resp.User.ID)
	if err != nil {
		return nil, err
	}
	return &client.Credentials{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		UserID:    userID,
		Username:  resp.User.Username,
		KeyMaterial: accountDomain.KeyMaterial{
			WrappedMasterKey: resp.WrappedMasterKey,
			KDFParams: accountDomain.KDFParams{
				Salt:       resp.KDFParams.Salt,
				Iterations: resp.KDFParams.Iterations,
			},
		},
	}, nil
}

// Open returns a backend sending token with every request. The token is
// checked by the server on first use.
func (a *Accounts) Open(_ context.Context, token string) (client.Backend, error) {
	t := a.transport
	t.token = token
	return &Backend{transport: t}, nil
}

// Backend implements client.Backend against a passbox server.
type Backend struct {
	transport
}

func (b *Backend) Logout(ctx context.Context) error {
	return b.do(ctx, http.MethodDelete, "/v1/token", nil, nil)
}

func (b *Backend) ChangeCredentials(ctx context.Context, change *accountDomain.CredentialChange) error {
	return b.do(ctx, http.MethodPut, "/v1/accounts/credentials", accountDTO.ChangeCredentialsRequest{
		OldAuthenticator:  change.OldAuthenticator,
		EnrollmentRequest: enrollmentRequest(&change.Enrollment),
	}, nil)
}

func (b *Backend) CreateRecord(
	ctx context.Context,
	input *vaultDomain.CreateRecordInput,
) (*vaultDomain.Record, error) {
	var resp vaultDTO.RecordResponse
	err := b.do(ctx, http.MethodPost, "/v1/records", vaultDTO.CreateRecordRequest{
		Kind:              string(input.Kind),
		EncryptedFields:   input.EncryptedFields,
		Name:              input.Name,
		WrappedContentKey: input.WrappedContentKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toRecord(&resp)
}

func (b *Backend) GetKeyRecord(ctx context.Context, id uuid.UUID) (*vaultDomain.KeyRecord, error) {
	var resp vaultDTO.KeyRecordResponse
	if err := b.do(ctx, http.MethodGet, "/v1/records/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	return toKeyRecord(&resp)
}

func (b *Backend) ListRecords(ctx context.Context) ([]*vaultDomain.Record, error) {
	var resp vaultDTO.ListRecordsResponse
	if err := b.do(ctx, http.MethodGet, "/v1/records", nil, &resp); err != nil {
		return nil, err
	}

	records := make([]*vaultDomain.Record, 0, len(resp.Data))
	for i := range resp.Data {
		record, err := toRecord(&resp.Data[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (b *Backend) GetDocument(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error) {
	var resp vaultDTO.DocumentResponse
	if err := b.do(ctx, http.MethodGet, "/v1/documents/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	return toDocument(&resp)
}

func (b *Backend) UpdateDocument(
	ctx context.Context,
	id uuid.UUID,
	input *vaultDomain.UpdateDocumentInput,
) (*vaultDomain.ContentDocument, error) {
	var resp vaultDTO.DocumentResponse
	err := b.do(ctx, http.MethodPut, "/v1/documents/"+id.String(), vaultDTO.UpdateDocumentRequest{
		EncryptedFields: input.EncryptedFields,
		Name:            input.Name,
		ExpectedVersion: input.ExpectedVersion,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toDocument(&resp)
}

func (b *Backend) RemoveOwner(ctx context.Context, documentID uuid.UUID, username string) error {
	path := "/v1/documents/" + documentID.String() + "/owners/" + url.PathEscape(username)
	return b.do(ctx, http.MethodDelete, path, nil, nil)
}

func (b *Backend) CreateShare(
	ctx context.Context,
	input *sharingDomain.CreateShareInput,
) (*sharingDomain.Share, error) {
	var resp sharingDTO.ShareResponse
	err := b.do(ctx, http.MethodPost, "/v1/shares", sharingDTO.CreateShareRequest{
		ContentDocumentID: input.ContentDocumentID.String(),
		Name:              input.Name,
		EncryptedReceiver: input.EncryptedReceiver,
		WrappedContentKey: input.WrappedContentKey,
		ReceiverTag:       input.ReceiverTag,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toShare(&resp)
}

func (b *Backend) GetShare(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	var resp sharingDTO.ShareResponse
	if err := b.do(ctx, http.MethodGet, "/v1/shares/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	return toShare(&resp)
}

func (b *Backend) AcceptShare(
	ctx context.Context,
	id uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	var resp vaultDTO.RecordResponse
	err := b.do(ctx, http.MethodPost, "/v1/shares/"+id.String()+"/accept", sharingDTO.AcceptShareRequest{
		Name:              input.Name,
		WrappedContentKey: input.WrappedContentKey,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return toRecord(&resp)
}

func (b *Backend) DeleteShare(ctx context.Context, id uuid.UUID) error {
	return b.do(ctx, http.MethodDelete, "/v1/shares/"+id.String(), nil, nil)
}
