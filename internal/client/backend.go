package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	sharingDomain "github.com/allisson/passbox/internal/sharing/domain"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// Credentials is what a successful login hands back: a bearer token and the
// material needed to unlock the master key.
type Credentials struct {
	Token       string                    `json:"token"`
	ExpiresAt   time.Time                 `json:"expires_at"`
	UserID      uuid.UUID                 `json:"user_id"`
	Username    string                    `json:"username"`
	KeyMaterial accountDomain.KeyMaterial `json:"key_material"`
}

// AccountBackend covers the calls made before a session exists.
type AccountBackend interface {
	Register(ctx context.Context, registration *accountDomain.Registration) error

	PreLogin(ctx context.Context, username string) (*accountDomain.KDFParams, error)

	Login(ctx context.Context, username string, authenticator []byte) (*Credentials, error)

	// Open returns a Backend acting for the holder of token.
	Open(ctx context.Context, token string) (Backend, error)
}

// Backend stores ciphertext on behalf of one authenticated user. It never sees
// plaintext, master keys, content keys or share secrets.
type Backend interface {
	Logout(ctx context.Context) error

	ChangeCredentials(ctx context.Context, change *accountDomain.CredentialChange) error

	CreateRecord(ctx context.Context, input *vaultDomain.CreateRecordInput) (*vaultDomain.Record, error)

	GetKeyRecord(ctx context.Context, id uuid.UUID) (*vaultDomain.KeyRecord, error)

	ListRecords(ctx context.Context) ([]*vaultDomain.Record, error)

	GetDocument(ctx context.Context, id uuid.UUID) (*vaultDomain.ContentDocument, error)

	UpdateDocument(
		ctx context.Context,
		id uuid.UUID,
		input *vaultDomain.UpdateDocumentInput,
	) (*vaultDomain.ContentDocument, error)

	RemoveOwner(ctx context.Context, documentID uuid.UUID, username string) error

	CreateShare(ctx context.Context, input *sharingDomain.CreateShareInput) (*sharingDomain.Share, error)

	GetShare(ctx context.Context, id uuid.UUID) (*sharingDomain.Share, error)

	AcceptShare(ctx context.Context, id uuid.UUID, input *vaultDomain.AddOwnerInput) (*vaultDomain.Record, error)

	DeleteShare(ctx context.Context, id uuid.UUID) error
}
