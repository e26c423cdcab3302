package app

import (
	accountService "github.com/allisson/passbox/internal/account/service"
	cryptoService "github.com/allisson/passbox/internal/crypto/service"
	"github.com/allisson/passbox/internal/envelope"
)

// Engine returns the crypto engine shared by the envelope codec and the
// master key service.
func (c *Container) Engine() cryptoService.Engine {
	c.engineInit.Do(func() {
		c.engine = c.initEngine()
	})
	return c.engine
}

// Codec returns the envelope codec.
func (c *Container) Codec() *envelope.Codec {
	c.codecInit.Do(func() {
		c.codec = envelope.NewCodec(c.Engine())
	})
	return c.codec
}

// MasterKeyService returns the service that enrolls, unlocks and rotates master keys.
func (c *Container) MasterKeyService() accountService.MasterKeyService {
	c.masterKeyServiceInit.Do(func() {
		c.masterKeyService = accountService.NewMasterKeyService(c.Engine())
	})
	return c.masterKeyService
}

// initEngine creates the engine with the default AEAD and iteration count.
func (c *Container) initEngine() cryptoService.Engine {
	return cryptoService.NewDefaultEngine()
}
