package service

import (
	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// cipherConstructors maps each supported algorithm to its constructor.
// Envelopes carry no algorithm marker, so adding an entry here is not enough
// to introduce a second algorithm.
var cipherConstructors = map[cryptoDomain.Algorithm]func(key []byte) (AEAD, error){
	cryptoDomain.AESGCM: func(key []byte) (AEAD, error) { return NewAESGCM(key) },
}

// AEADManagerService builds AEAD ciphers for the key manager.
type AEADManagerService struct{}

func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher rejects keys that are not KeySize bytes before looking up alg.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	construct, ok := cipherConstructors[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	return construct(key)
}
