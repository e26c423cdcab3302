// Package local runs the client against the server use cases in the same
// process, without HTTP. It backs the embedded mode of the CLI and end to end
// tests.
package local

import (
	"context"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	accountUseCase "github.com/allisson/passbox/internal/account/usecase"
	authDomain "github.com/allisson/passbox/internal/auth/domain"
	authService "github.com/allisson/passbox/internal/auth/service"
	authUseCase "github.com/allisson/passbox/internal/auth/usecase"
	"github.com/allisson/passbox/internal/client"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	sharingUseCase "github.com/allisson/passbox/internal/sharing/usecase"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
	vaultUseCase "github.com/allisson/passbox/internal/vault/usecase"
)

// Accounts implements client.AccountBackend over the use cases.
type Accounts struct {
	accountUseCase accountUseCase.AccountUseCase
	tokenUseCase   authUseCase.TokenUseCase
	tokenService   authService.TokenService
	vaultUseCase   vaultUseCase.VaultUseCase
	sharingUseCase sharingUseCase.SharingUseCase
}

// NewAccounts creates an in-process account backend.
func NewAccounts(
	accountUseCase accountUseCase.AccountUseCase,
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	vaultUseCase vaultUseCase.VaultUseCase,
	sharingUseCase sharingUseCase.SharingUseCase,
) *Accounts {
	return &Accounts{
		accountUseCase: accountUseCase,
		tokenUseCase:   tokenUseCase,
		tokenService:   tokenService,
		vaultUseCase:   vaultUseCase,
		sharingUseCase: sharingUseCase,
	}
}

func (a *Accounts) Register(ctx context.Context, registration *accountDomain.Registration) error {
	_, err := a.accountUseCase.Register(ctx, registration)
	return err
}

func (a *Accounts) PreLogin(ctx context.Context, username string) (*accountDomain.KDFParams, error) {
	return a.accountUseCase.PreLogin(ctx, username)
}

func (a *Accounts) Login(ctx context.Context, username string, authenticator []byte) (*client.Credentials, error) {
	result, err := a.accountUseCase.Login(ctx, username, authenticator)
	if err != nil {
		return nil, err
	}

	return &client.Credentials{
		Token:       result.PlainToken,
		ExpiresAt:   result.ExpiresAt,
		UserID:      result.User.ID,
		Username:    result.User.Username,
		KeyMaterial: *result.User.KeyMaterial(),
	}, nil
}

// Open authenticates token the same way the HTTP middleware does.
func (a *Accounts) Open(ctx context.Context, token string) (client.Backend, error) {
	tokenHash := a.tokenService.HashToken(token)
	principal, err := a.tokenUseCase.Authenticate(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	return &Backend{
		accounts:  a,
		principal: principal,
		tokenHash: tokenHash,
	}, nil
}

// Backend implements client.Backend for one authenticated principal.
type Backend struct {
	accounts  *Accounts
	principal *authDomain.Principal
	tokenHash string
}

func (b *Backend) Logout(ctx context.Context) error {
	return b.accounts.accountUseCase.Logout(ctx, b.tokenHash)
}

func (b *Backend) ChangeCredentials(ctx context.Context, change *accountDomain.CredentialChange) error {
	scoped := *change
	scoped.CurrentTokenHash = b.tokenHash
	return b.accounts.accountUseCase.ChangeCredentials(ctx, b.principal.UserID, &scoped)
}

func (b *Backend) CreateRecord(
	ctx context.Context,
	input *vaultDomain.CreateRecordInput,
) (*vaultDomain.Record, error) {
	return b.accounts.vaultUseCase.Create(ctx, b.principal, input)
}

func (b *Backend) GetKeyRecord(ctx context.Context, id uuid.UUID) (*vaultDomain.KeyRecord, error) {
	return b.accounts.vaultUseCase.GetKeyRecord(ctx, b.principal, id)
}

func (b *Backend) ListRecords(ctx context.Context) ([]*vaultDomain.Record, error) {
	return b.accounts.vaultUseCase.ListRecords(ctx, b.principal)
}

func (b *Backend) GetDocument(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error) {
	return b.accounts.vaultUseCase.GetDocument(ctx, b.principal, id)
}

func (b *Backend) UpdateDocument(
	ctx context.Context,
	id uuid.UUID,
	input *vaultDomain.UpdateDocumentInput,
) (*vaultDomain.ContentDocument, error) {
	return b.accounts.vaultUseCase.UpdateDocument(ctx, b.principal, id, input)
}

func (b *Backend) RemoveOwner(ctx context.Context, documentID uuid.UUID, username string) error {
	return b.accounts.vaultUseCase.RemoveOwner(ctx, b.principal, documentID, username)
}

func (b *Backend) CreateShare(
	ctx context.Context,
	input *sharingDomain.CreateShareInput,
) (*sharingDomain.Share, error) {
	return b.accounts.sharingUseCase.Create(ctx, b.principal, input)
}

func (b *Backend) GetShare(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error) {
	return b.accounts.sharingUseCase.Get(ctx, id)
}

func (b *Backend) AcceptShare(
	ctx context.Context,
	id uuid.UUID,
	input *vaultDomain.AddOwnerInput,
) (*vaultDomain.Record, error) {
	return b.accounts.sharingUseCase.Accept(ctx, b.principal, id, input)
}

func (b *Backend) DeleteShare(ctx context.Context, id uuid.UUID) error {
	return b.accounts.sharingUseCase.Delete(ctx, id)
}
