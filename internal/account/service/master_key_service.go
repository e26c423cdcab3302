// Package service implements the client side of the master key hierarchy.
package service

import (
	accountDomain "github.com/allisson/passbox/internal/account/domain"
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
	cryptoService "github.com/allisson/passbox/internal/crypto/service"
	apperrors "github.com/allisson/passbox/internal/errors"
)

// MasterKeyService enrolls, unlocks and rotates master keys on the client.
//
// The login authenticator and the master key wrap key are derived from one
// PBKDF2 pass over the password, expanded with distinct HKDF contexts. The
// server only ever sees the authenticator (and stores a hash of it), which
// reveals nothing about the wrap key.
type MasterKeyService interface {
	// Enroll generates a new master key and wraps it under password.
	Enroll(password string) (*accountDomain.Enrollment, *accountDomain.MasterKey, error)

	// Authenticator re-derives the login authenticator for password.
	Authenticator(password string, params accountDomain.KDFParams) ([]byte, error)

	// Unlock unwraps the master key with password.
	Unlock(password string, material *accountDomain.KeyMaterial) (*accountDomain.MasterKey, error)

	// Rotate re-wraps the master key under newPassword with a fresh salt. No
	// other ciphertext changes.
	Rotate(
		oldPassword, newPassword string,
		material *accountDomain.KeyMaterial,
	) (*accountDomain.Enrollment, []byte, error)
}

type masterKeyService struct {
	engine     cryptoService.Engine
	iterations int
}

// NewMasterKeyService creates a MasterKeyService. New enrollments use the
// engine's iteration count.
func NewMasterKeyService(engine cryptoService.Engine) MasterKeyService {
	return &masterKeyService{
		engine:     engine,
		iterations: engine.Iterations(),
	}
}

// deriveKeys returns the authenticate and wrap keys for password.
func (s *masterKeyService) deriveKeys(
	password string,
	params accountDomain.KDFParams,
) (authKey, wrapKey *cryptoService.Key, err error) {
	pw := []byte(password)
	defer cryptoDomain.Zero(pw)

	keys, err := s.engine.DeriveKeys(
		pw,
		params.Salt,
		params.Iterations,
		cryptoDomain.PurposeAuthenticate,
		cryptoDomain.PurposeWrap,
	)
	if err != nil {
		return nil, nil, err
	}
	return keys[0], keys[1], nil
}

// wrap enrolls an existing master key secret under password with a fresh salt.
func (s *masterKeyService) wrap(password string, secret []byte) (*accountDomain.Enrollment, error) {
	salt, err := s.engine.GenerateSalt()
	if err != nil {
		return nil, err
	}
	params := accountDomain.KDFParams{Salt: salt, Iterations: s.iterations}

	authKey, wrapKey, err := s.deriveKeys(password, params)
	if err != nil {
		return nil, err
	}
	defer authKey.Destroy()
	defer wrapKey.Destroy()

	wrapped, err := s.engine.WrapSecret(secret, wrapKey)
	if err != nil {
		return nil, err
	}

	authenticator, err := s.engine.Export(authKey)
	if err != nil {
		return nil, err
	}

	return &accountDomain.Enrollment{
		Authenticator: authenticator,
		KeyMaterial: accountDomain.KeyMaterial{
			WrappedMasterKey: wrapped,
			KDFParams:        params,
		},
	}, nil
}

func (s *masterKeyService) Enroll(password string) (*accountDomain.Enrollment, *accountDomain.MasterKey, error) {
	if password == "" {
		return nil, nil, cryptoDomain.ErrEmptySecret
	}

	secret, err := s.engine.GenerateSecret()
	if err != nil {
		return nil, nil, err
	}

	enrollment, err := s.wrap(password, secret)
	if err != nil {
		cryptoDomain.Zero(secret)
		return nil, nil, err
	}
	return enrollment, accountDomain.NewMasterKey(secret), nil
}

func (s *masterKeyService) Authenticator(password string, params accountDomain.KDFParams) ([]byte, error) {
	authKey, wrapKey, err := s.deriveKeys(password, params)
	if err != nil {
		return nil, err
	}
	defer authKey.Destroy()
	wrapKey.Destroy()

	return s.engine.Export(authKey)
}

func (s *masterKeyService) Unlock(
	password string,
	material *accountDomain.KeyMaterial,
) (*accountDomain.MasterKey, error) {
	secret, authenticator, err := s.open(password, material)
	if err != nil {
		return nil, err
	}
	cryptoDomain.Zero(authenticator)
	return accountDomain.NewMasterKey(secret), nil
}

// open derives both keys in one pass, unwraps the master key secret and
// exports the authenticator. The caller must zero both buffers.
func (s *masterKeyService) open(
	password string,
	material *accountDomain.KeyMaterial,
) (secret, authenticator []byte, err error) {
	if material == nil {
		return nil, nil, accountDomain.ErrInvalidKeyMaterial
	}

	authKey, wrapKey, err := s.deriveKeys(password, material.KDFParams)
	if err != nil {
		return nil, nil, err
	}
	defer authKey.Destroy()
	defer wrapKey.Destroy()

	secret, err = s.engine.UnwrapSecret(material.WrappedMasterKey, wrapKey)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCryptoFailure) {
			return nil, nil, accountDomain.ErrWrongPassword
		}
		return nil, nil, err
	}

	authenticator, err = s.engine.Export(authKey)
	if err != nil {
		cryptoDomain.Zero(secret)
		return nil, nil, err
	}
	return secret, authenticator, nil
}

// Rotate returns the new enrollment and the old authenticator, which proves
// knowledge of the current password to the server.
func (s *masterKeyService) Rotate(
	oldPassword, newPassword string,
	material *accountDomain.KeyMaterial,
) (*accountDomain.Enrollment, []byte, error) {
	if newPassword == "" {
		return nil, nil, cryptoDomain.ErrEmptySecret
	}

	secret, oldAuthenticator, err := s.open(oldPassword, material)
	if err != nil {
		return nil, nil, err
	}
	defer cryptoDomain.Zero(secret)

	enrollment, err := s.wrap(newPassword, secret)
	if err != nil {
		cryptoDomain.Zero(oldAuthenticator)
		return nil, nil, err
	}
	return enrollment, oldAuthenticator, nil
}
