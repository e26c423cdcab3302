// Package session persists a CLI login between invocations. The bearer token
// and key material are stored as JSON; the unlocked master key is cached only
// when a gocloud.dev/secrets keeper is configured to seal it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gocloud.dev/secrets"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	"github.com/allisson/passbox/internal/client"

	// Register all keeper drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

type file struct {
	Credentials     client.Credentials `json:"credentials"`
	SealedMasterKey []byte             `json:"sealed_master_key,omitempty"`
}

// Saved is a stored login. MasterKey is nil when it was not cached, in which
// case the caller asks for the password again.
type Saved struct {
	Credentials client.Credentials
	MasterKey   *accountDomain.MasterKey
}

// Lookup is the result of Load. Found is false when no login is stored.
type Lookup struct {
	Saved *Saved
	Found bool
}

// Store reads and writes the session file.
type Store struct {
	path      string
	keeperURI string
}

// NewStore creates a store at path. keeperURI may be empty.
func NewStore(path, keeperURI string) *Store {
	return &Store{path: path, keeperURI: keeperURI}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Sealed reports whether the store caches master keys.
func (s *Store) Sealed() bool {
	return s.keeperURI != ""
}

func (s *Store) openKeeper(ctx context.Context) (*secrets.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, s.keeperURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open session keeper: %w", err)
	}
	return keeper, nil
}

// Save writes the credentials of session and, when a keeper is configured,
// its master key sealed by the keeper. The file is private to the user.
func (s *Store) Save(ctx context.Context, session *client.Session) error {
	content := file{Credentials: session.Credentials()}

	if s.Sealed() {
		keeper, err := s.openKeeper(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = keeper.Close()
		}()

		err = session.MasterKey().Use(func(secret []byte) error {
			sealed, err := keeper.Encrypt(ctx, secret)
			if err != nil {
				return fmt.Errorf("failed to seal master key: %w", err)
			}
			content.SealedMasterKey = sealed
			return nil
		})
		if err != nil {
			return err
		}
	}

	data, err := json.Marshal(&content)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the stored login. A sealed master key that the keeper refuses to
// open is dropped, so the caller falls back to the password.
func (s *Store) Load(ctx context.Context) (Lookup, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Lookup{}, nil
	}
	if err != nil {
		return Lookup{}, err
	}

	var content file
	if err := json.Unmarshal(data, &content); err != nil {
		return Lookup{}, fmt.Errorf("malformed session file %s: %w", s.path, err)
	}

	saved := &Saved{Credentials: content.Credentials}
	if len(content.SealedMasterKey) > 0 && s.Sealed() {
		keeper, err := s.openKeeper(ctx)
		if err != nil {
			return Lookup{}, err
		}
		defer func() {
			_ = keeper.Close()
		}()

		if secret, err := keeper.Decrypt(ctx, content.SealedMasterKey); err == nil {
			saved.MasterKey = accountDomain.NewMasterKey(secret)
		}
	}
	return Lookup{Saved: saved, Found: true}, nil
}

// Clear removes the stored login. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
