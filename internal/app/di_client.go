package app

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/allisson/passbox/internal/breach"
	"github.com/allisson/passbox/internal/client"
	"github.com/allisson/passbox/internal/client/local"
	"github.com/allisson/passbox/internal/client/remote"
	"github.com/allisson/passbox/internal/client/session"
	"github.com/allisson/passbox/internal/config"
)

// EmbeddedServerURL selects the in-process backend, which talks to the
// configured database directly instead of an API server.
const EmbeddedServerURL = config.EmbeddedServerURL

// AccountBackend returns the backend the CLI talks to.
func (c *Container) AccountBackend() (client.AccountBackend, error) {
	var err error
	c.accountBackendInit.Do(func() {
		c.accountBackend, err = c.initAccountBackend()
		if err != nil {
			c.initErrors["accountBackend"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountBackend"]; exists {
		return nil, storedErr
	}
	return c.accountBackend, nil
}

// Client returns the password manager client.
func (c *Container) Client() (*client.Client, error) {
	var err error
	c.clientInit.Do(func() {
		c.client, err = c.initClient()
		if err != nil {
			c.initErrors["client"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["client"]; exists {
		return nil, storedErr
	}
	return c.client, nil
}

// SessionStore returns the store for the CLI login.
func (c *Container) SessionStore() *session.Store {
	c.sessionStoreInit.Do(func() {
		c.sessionStore = session.NewStore(c.config.ClientSessionFile, c.config.ClientSessionKeeperURI)
	})
	return c.sessionStore
}

// BreachChecker returns the password breach checker.
func (c *Container) BreachChecker() *breach.Checker {
	c.breachCheckerInit.Do(func() {
		c.breachChecker = c.initBreachChecker()
	})
	return c.breachChecker
}

func (c *Container) initAccountBackend() (client.AccountBackend, error) {
	if !c.config.Embedded() {
		httpClient := remote.NewHTTPClient(c.config.ClientHTTPRetryMax, c.config.ClientHTTPTimeout, c.Logger())
		return remote.NewAccounts(c.config.ClientServerURL, httpClient), nil
	}

	accountUseCase, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for embedded backend: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for embedded backend: %w", err)
	}

	vaultUseCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for embedded backend: %w", err)
	}

	sharingUseCase, err := c.SharingUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get sharing use case for embedded backend: %w", err)
	}

	return local.NewAccounts(accountUseCase, tokenUseCase, c.TokenService(), vaultUseCase, sharingUseCase), nil
}

func (c *Container) initClient() (*client.Client, error) {
	accounts, err := c.AccountBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to get account backend for client: %w", err)
	}

	return client.New(accounts, c.Codec(), c.MasterKeyService(), client.Options{
		ShareBaseURL: c.config.ClientShareBaseURL,
		Parallelism:  c.config.ClientParallelism,
	}), nil
}

// initBreachChecker creates a checker whose lookups are retried with the
// default policy: they are plain GETs.
func (c *Container) initBreachChecker() *breach.Checker {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = c.config.ClientHTTPRetryMax
	httpClient.HTTPClient.Timeout = c.config.ClientHTTPTimeout
	httpClient.Logger = c.Logger()
	return breach.NewChecker(c.config.ClientBreachAPIURL, httpClient, c.Engine())
}
