package app

import (
	"fmt"

	"github.com/allisson/passbox/internal/database"
	sharingHTTP "github.com/allisson/passbox/internal/sharing/http"
	sharingRepository "github.com/allisson/passbox/internal/sharing/repository"
	sharingUseCase "github.com/allisson/passbox/internal/sharing/usecase"
)

// ShareRepository returns the share repository based on database driver.
func (c *Container) ShareRepository() (sharingUseCase.ShareRepository, error) {
	var err error
	c.shareRepositoryInit.Do(func() {
		c.shareRepository, err = c.initShareRepository()
		if err != nil {
			c.initErrors["shareRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["shareRepository"]; exists {
		return nil, storedErr
	}
	return c.shareRepository, nil
}

// SharingUseCase returns the sharing use case.
func (c *Container) SharingUseCase() (sharingUseCase.SharingUseCase, error) {
	var err error
	c.sharingUseCaseInit.Do(func() {
		c.sharingUseCase, err = c.initSharingUseCase()
		if err != nil {
			c.initErrors["sharingUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sharingUseCase"]; exists {
		return nil, storedErr
	}
	return c.sharingUseCase, nil
}

// SharingHandler returns the sharing HTTP handler.
func (c *Container) SharingHandler() (*sharingHTTP.SharingHandler, error) {
	var err error
	c.sharingHandlerInit.Do(func() {
		c.sharingHandler, err = c.initSharingHandler()
		if err != nil {
			c.initErrors["sharingHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sharingHandler"]; exists {
		return nil, storedErr
	}
	return c.sharingHandler, nil
}

func (c *Container) initShareRepository() (sharingUseCase.ShareRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for share repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return sharingRepository.NewPostgreSQLShareRepository(db), nil
	case database.DriverMySQL:
		return sharingRepository.NewMySQLShareRepository(db), nil
	case database.DriverSQLite:
		return sharingRepository.NewSQLiteShareRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initSharingUseCase() (sharingUseCase.SharingUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for sharing use case: %w", err)
	}

	shareRepository, err := c.ShareRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get share repository for sharing use case: %w", err)
	}

	vault, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for sharing use case: %w", err)
	}

	baseUseCase := sharingUseCase.NewSharingUseCase(c.config, txManager, shareRepository, vault)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for sharing use case: %w", err)
		}
		return sharingUseCase.NewSharingUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initSharingHandler() (*sharingHTTP.SharingHandler, error) {
	useCase, err := c.SharingUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get sharing use case for sharing handler: %w", err)
	}
	return sharingHTTP.NewSharingHandler(useCase, c.Logger()), nil
}
