package client

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	accountDomain "github.com/allisson/passbox/internal/account/domain"
	accountService "github.com/allisson/passbox/internal/account/service"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	cryptoService "github.com/allisson/passbox/internal/crypto/service"
	"github.com/allisson/passbox/internal/envelope"
	apperrors "github.com/allisson/passbox/internal/errors"
	vaultDomain "github.com/allisson/passbox/internal/vault/domain"
)

// Session is an unlocked user session. It is safe for concurrent use until
// Close or Logout.
type Session struct {
	backend    Backend
	codec      *envelope.Codec
	masterKeys accountService.MasterKeyService
	masterKey  *accountDomain.MasterKey
	creds      Credentials
	opts       Options
}

// CreateResult identifies a newly created record.
type CreateResult struct {
	ContentDocumentID uuid.UUID
	KeyRecordID       uuid.UUID
}

// Username returns the logged in user.
func (s *Session) Username() string {
	return s.creds.Username
}

// Credentials returns the token and key material of the session.
func (s *Session) Credentials() Credentials {
	return s.creds
}

// MasterKey returns the unlocked master key. It stays owned by the session.
func (s *Session) MasterKey() *accountDomain.MasterKey {
	return s.masterKey
}

// Close zeroes the master key. The session is unusable afterwards.
func (s *Session) Close() {
	s.masterKey.Destroy()
}

// Logout revokes the session token and closes the session.
func (s *Session) Logout(ctx context.Context) error {
	defer s.Close()
	return s.backend.Logout(ctx)
}

// ChangePassword re-wraps the master key under newPassword. Records are not
// touched and the session stays unlocked.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrEmptyPassword
	}

	enrollment, oldAuthenticator, err := s.masterKeys.Rotate(oldPassword, newPassword, &s.creds.KeyMaterial)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(oldAuthenticator)
	defer cryptoDomain.Zero(enrollment.Authenticator)

	err = s.backend.ChangeCredentials(ctx, &accountDomain.CredentialChange{
		OldAuthenticator: oldAuthenticator,
		Enrollment:       *enrollment,
	})
	if err != nil {
		return err
	}

	s.creds.KeyMaterial = enrollment.KeyMaterial
	return nil
}

func (s *Session) engine() cryptoService.Engine {
	return s.codec.Engine()
}

func (s *Session) unwrapContentKey(wrapped []byte) (*cryptoService.Key, error) {
	var contentKey *cryptoService.Key
	err := s.masterKey.Use(func(secret []byte) error {
		var err error
		contentKey, err = s.codec.UnwrapKey(wrapped, secret)
		return err
	})
	if err != nil {
		return nil, err
	}
	return contentKey, nil
}

func (s *Session) wrapContentKey(contentKey *cryptoService.Key) (envelope.WrappedKey, error) {
	var wrapped envelope.WrappedKey
	err := s.masterKey.Use(func(secret []byte) error {
		var err error
		wrapped, err = s.codec.WrapKey(contentKey, secret)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wrapped, nil
}

// load fetches a key record and its document. A document that disappears while
// the key record still exists is corruption.
func (s *Session) load(
	ctx context.Context,
	keyRecordID uuid.UUID,
) (*vaultDomain.KeyRecord, *vaultDomain.ContentDocument, error) {
	keyRecord, err := s.backend.GetKeyRecord(ctx, keyRecordID)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.backend.GetDocument(ctx, keyRecord.ContentDocumentID)
	if err == nil {
		return keyRecord, doc, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, err
	}

	// Revoked in between: the key record is gone as well.
	if _, recheckErr := s.backend.GetKeyRecord(ctx, keyRecordID); recheckErr != nil {
		return nil, nil, recheckErr
	}
	return nil, nil, ErrMissingDocument
}

// Create encrypts fields under a fresh content key and stores them as a new
// record owned by the session user.
func (s *Session) Create(ctx context.Context, kind vaultDomain.Kind, fields []string) (*CreateResult, error) {
	if err := validateFields(kind, fields); err != nil {
		return nil, err
	}

	if kind == vaultDomain.KindCredential {
		lookup, err := s.FindCredential(ctx, fields[0], fields[1])
		if err != nil {
			return nil, err
		}
		if lookup.Found {
			return nil, ErrDuplicateCredential
		}
	}

	var (
		env        *envelope.WrappedEnvelope
		contentKey *cryptoService.Key
	)
	err := s.masterKey.Use(func(secret []byte) error {
		var err error
		env, contentKey, err = s.codec.EncryptWrappedRetainingKey(fields, secret)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer contentKey.Destroy()

	name, err := s.engine().Encrypt(fields[0], contentKey)
	if err != nil {
		return nil, err
	}

	encoded, err := envelope.Encode(env.Plain())
	if err != nil {
		return nil, err
	}

	record, err := s.backend.CreateRecord(ctx, &vaultDomain.CreateRecordInput{
		Kind:              kind,
		EncryptedFields:   encoded,
		Name:              name,
		WrappedContentKey: env.Key,
	})
	if err != nil {
		return nil, err
	}

	return &CreateResult{
		ContentDocumentID: record.KeyRecord.ContentDocumentID,
		KeyRecordID:       record.KeyRecord.ID,
	}, nil
}

// Read decrypts one record. Any decryption failure fails the whole read.
func (s *Session) Read(ctx context.Context, keyRecordID uuid.UUID) (*Entry, error) {
	keyRecord, doc, err := s.load(ctx, keyRecordID)
	if err != nil {
		return nil, err
	}

	plain, err := envelope.DecodePlain(doc.EncryptedFields)
	if err != nil {
		return nil, err
	}

	var (
		contentKey *cryptoService.Key
		values     []string
	)
	err = s.masterKey.Use(func(secret []byte) error {
		var err error
		contentKey, values, err = s.codec.DecryptWrapped(&envelope.WrappedEnvelope{
			Key:         keyRecord.WrappedContentKey,
			Ciphertexts: plain.Ciphertexts,
		}, secret)
		return err
	})
	if err != nil {
		return nil, err
	}
	defer contentKey.Destroy()

	name, err := s.engine().Decrypt(keyRecord.Name, contentKey)
	if err != nil {
		return nil, err
	}

	return newEntry(keyRecord, doc, name, values), nil
}

// Update re-encrypts fields under the record's existing content key. The
// encrypted name changes for every owner.
func (s *Session) Update(ctx context.Context, keyRecordID uuid.UUID, fields []string) error {
	keyRecord, doc, err := s.load(ctx, keyRecordID)
	if err != nil {
		return err
	}
	if err := validateFields(doc.Kind, fields); err != nil {
		return err
	}

	contentKey, err := s.unwrapContentKey(keyRecord.WrappedContentKey)
	if err != nil {
		return err
	}
	defer contentKey.Destroy()

	plain, err := s.codec.EncryptPlain(fields, contentKey)
	if err != nil {
		return err
	}
	encoded, err := envelope.Encode(plain)
	if err != nil {
		return err
	}

	name, err := s.engine().Encrypt(fields[0], contentKey)
	if err != nil {
		return err
	}

	_, err = s.backend.UpdateDocument(ctx, doc.ID, &vaultDomain.UpdateDocumentInput{
		EncryptedFields: encoded,
		Name:            name,
		ExpectedVersion: doc.Version,
	})
	return err
}

// Delete removes the session user from the record's owners. The document goes
// away with its last owner.
func (s *Session) Delete(ctx context.Context, keyRecordID uuid.UUID) error {
	return s.Revoke(ctx, keyRecordID, s.creds.Username)
}

// List decrypts every record of the session user in parallel. A value that
// fails to decrypt becomes CorruptedMarker and a record that cannot be opened
// is marked Corrupted; neither fails the listing.
func (s *Session) List(ctx context.Context) ([]*Entry, error) {
	records, err := s.backend.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.parallelism())
	for i, record := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = s.openListed(record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Session) openListed(record *vaultDomain.Record) *Entry {
	keyRecord, doc := record.KeyRecord, record.Document
	entry := &Entry{
		KeyRecordID: keyRecord.ID,
		DocumentID:  keyRecord.ContentDocumentID,
		Kind:        keyRecord.Kind,
		Name:        CorruptedMarker,
		Corrupted:   true,
	}
	if doc == nil {
		return entry
	}
	entry.Owners = ownerNames(doc)
	entry.Version = doc.Version

	contentKey, err := s.unwrapContentKey(keyRecord.WrappedContentKey)
	if err != nil {
		return entry
	}
	defer contentKey.Destroy()

	plain, err := envelope.DecodePlain(doc.EncryptedFields)
	if err != nil {
		return entry
	}
	entry.Corrupted = false

	if name, err := s.engine().Decrypt(keyRecord.Name, contentKey); err == nil {
		entry.Name = name
	}

	results := s.codec.DecryptEach(plain, contentKey)
	entry.Fields = make([]Field, len(results))
	for i, result := range results {
		entry.Fields[i] = Field{Name: fieldName(doc.Kind, i), Value: result.Value}
		if result.Err != nil {
			entry.Fields[i].Value = CorruptedMarker
			entry.Fields[i].Corrupted = true
		}
	}
	return entry
}

// FindCredential searches the session user's credentials for site and
// username. Sites compare case-insensitively.
func (s *Session) FindCredential(ctx context.Context, site, username string) (Lookup, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return Lookup{}, err
	}

	site = strings.TrimSpace(site)
	for _, entry := range entries {
		if entry.Kind != vaultDomain.KindCredential || entry.Corrupted {
			continue
		}
		entrySite, siteOK := entry.Field("site")
		entryUser, userOK := entry.Field("username")
		if !siteOK || !userOK || entrySite.Corrupted || entryUser.Corrupted {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(entrySite.Value), site) && entryUser.Value == username {
			return Lookup{Entry: entry, Found: true}, nil
		}
	}
	return Lookup{}, nil
}
