// Package client implements the client side of passbox: enrollment and
// unlocking of the master key, record encryption and the sharing protocol.
// Every plaintext value, master key, content key and share secret stays in
// this package; a Backend only ever receives ciphertext.
package client

import (
	"context"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	accountService "github.com/allisson/passbox/internal/account/service"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	"github.com/allisson/passbox/internal/envelope"
)

const defaultParallelism = 4

// Options tunes a Client and the sessions it opens.
type Options struct {
	// ShareBaseURL prefixes every share link.
	ShareBaseURL string
	// Parallelism bounds concurrent record decryption. Zero means a default.
	Parallelism int
}

func (o Options) parallelism() int {
	if o.Parallelism <= 0 {
		return defaultParallelism
	}
	return o.Parallelism
}

// Client signs users up and opens sessions.
type Client struct {
	accounts   AccountBackend
	codec      *envelope.Codec
	masterKeys accountService.MasterKeyService
	opts       Options
}

// New creates a Client.
func New(
	accounts AccountBackend,
	codec *envelope.Codec,
	masterKeys accountService.MasterKeyService,
	opts Options,
) *Client {
	return &Client{
		accounts:   accounts,
		codec:      codec,
		masterKeys: masterKeys,
		opts:       opts,
	}
}

// Signup enrolls a new master key wrapped under password and registers the
// user. The master key is discarded; Login unwraps it again.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	enrollment, masterKey, err := c.masterKeys.Enroll(password)
	if err != nil {
		return err
	}
	masterKey.Destroy()
	defer cryptoDomain.Zero(enrollment.Authenticator)

	return c.accounts.Register(ctx, &accountDomain.Registration{
		Username:   accountDomain.NormalizeUsername(username),
		Enrollment: *enrollment,
	})
}

// Login authenticates with the authenticator derived from password, then
// unwraps the master key locally.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	username = accountDomain.NormalizeUsername(username)

	params, err := c.accounts.PreLogin(ctx, username)
	if err != nil {
		return nil, err
	}

	authenticator, err := c.masterKeys.Authenticator(password, *params)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(authenticator)

	creds, err := c.accounts.Login(ctx, username, authenticator)
	if err != nil {
		return nil, err
	}

	return c.Unlock(ctx, creds, password)
}

// Unlock opens a session for stored credentials by unwrapping the master key
// with password.
func (c *Client) Unlock(ctx context.Context, creds *Credentials, password string) (*Session, error) {
	masterKey, err := c.masterKeys.Unlock(password, &creds.KeyMaterial)
	if err != nil {
		return nil, err
	}

	session, err := c.Resume(ctx, creds, masterKey)
	if err != nil {
		masterKey.Destroy()
		return nil, err
	}
	return session, nil
}

// Resume opens a session for stored credentials and an already unlocked
// master key. The session takes ownership of masterKey.
func (c *Client) Resume(
	ctx context.Context,
	creds *Credentials,
	masterKey *accountDomain.MasterKey,
) (*Session, error) {
	backend, err := c.accounts.Open(ctx, creds.Token)
	if err != nil {
		return nil, err
	}

	return &Session{
		backend:    backend,
		codec:      c.codec,
		masterKeys: c.masterKeys,
		masterKey:  masterKey,
		creds:      *creds,
		opts:       c.opts,
	}, nil
}
