package app

import (
	"fmt"

	"github.com/allisson/passbox/internal/database"
	vaultHTTP "github.com/allisson/passbox/internal/vault/http"
	vaultRepository "github.com/allisson/passbox/internal/vault/repository"
	vaultUseCase "github.com/allisson/passbox/internal/vault/usecase"
)

// DocumentRepository returns the content document repository based on database driver.
func (c *Container) DocumentRepository() (vaultUseCase.DocumentRepository, error) {
	var err error
	c.documentRepositoryInit.Do(func() {
		c.documentRepository, err = c.initDocumentRepository()
		if err != nil {
			c.initErrors["documentRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["documentRepository"]; exists {
		return nil, storedErr
	}
	return c.documentRepository, nil
}

// KeyRecordRepository returns the key record repository based on database driver.
func (c *Container) KeyRecordRepository() (vaultUseCase.KeyRecordRepository, error) {
	var err error
	c.keyRecordRepositoryInit.Do(func() {
		c.keyRecordRepository, err = c.initKeyRecordRepository()
		if err != nil {
			c.initErrors["keyRecordRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRecordRepository"]; exists {
		return nil, storedErr
	}
	return c.keyRecordRepository, nil
}

// VaultUseCase returns the vault use case.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// VaultHandler returns the vault HTTP handler.
func (c *Container) VaultHandler() (*vaultHTTP.VaultHandler, error) {
	var err error
	c.vaultHandlerInit.Do(func() {
		c.vaultHandler, err = c.initVaultHandler()
		if err != nil {
			c.initErrors["vaultHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultHandler"]; exists {
		return nil, storedErr
	}
	return c.vaultHandler, nil
}

func (c *Container) initDocumentRepository() (vaultUseCase.DocumentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for document repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return vaultRepository.NewPostgreSQLDocumentRepository(db), nil
	case database.DriverMySQL:
		return vaultRepository.NewMySQLDocumentRepository(db), nil
	case database.DriverSQLite:
		return vaultRepository.NewSQLiteDocumentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initKeyRecordRepository() (vaultUseCase.KeyRecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for key record repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return vaultRepository.NewPostgreSQLKeyRecordRepository(db), nil
	case database.DriverMySQL:
		return vaultRepository.NewMySQLKeyRecordRepository(db), nil
	case database.DriverSQLite:
		return vaultRepository.NewSQLiteKeyRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for vault use case: %w", err)
	}

	documentRepository, err := c.DocumentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get document repository for vault use case: %w", err)
	}

	keyRecordRepository, err := c.KeyRecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get key record repository for vault use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewVaultUseCase(txManager, documentRepository, keyRecordRepository)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
		}
		return vaultUseCase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initVaultHandler() (*vaultHTTP.VaultHandler, error) {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for vault handler: %w", err)
	}
	return vaultHTTP.NewVaultHandler(useCase, c.Logger()), nil
}
