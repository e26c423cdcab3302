package app

import (
	"fmt"

	accountHTTP "github.com/allisson/passbox/internal/account/http"
	accountRepository "github.com/allisson/passbox/internal/account/repository"
	accountUseCase "github.com/allisson/passbox/internal/account/usecase"
	"github.com/allisson/passbox/internal/database"
)

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (accountUseCase.UserRepository, error) {
	var err error
	c.userRepositoryInit.Do(func() {
		c.userRepository, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepository"]; exists {
		return nil, storedErr
	}
	return c.userRepository, nil
}

// AccountUseCase returns the account use case.
func (c *Container) AccountUseCase() (accountUseCase.AccountUseCase, error) {
	var err error
	c.accountUseCaseInit.Do(func() {
		c.accountUseCase, err = c.initAccountUseCase()
		if err != nil {
			c.initErrors["accountUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// AccountHandler returns the account HTTP handler.
func (c *Container) AccountHandler() (*accountHTTP.AccountHandler, error) {
	var err error
	c.accountHandlerInit.Do(func() {
		c.accountHandler, err = c.initAccountHandler()
		if err != nil {
			c.initErrors["accountHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountHandler"]; exists {
		return nil, storedErr
	}
	return c.accountHandler, nil
}

// initUserRepository creates the user repository for the configured database driver.
func (c *Container) initUserRepository() (accountUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return accountRepository.NewPostgreSQLUserRepository(db), nil
	case database.DriverMySQL:
		return accountRepository.NewMySQLUserRepository(db), nil
	case database.DriverSQLite:
		return accountRepository.NewSQLiteUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAccountUseCase creates the account use case with all its dependencies.
func (c *Container) initAccountUseCase() (accountUseCase.AccountUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for account use case: %w", err)
	}

	userRepository, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for account use case: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for account use case: %w", err)
	}

	baseUseCase := accountUseCase.NewAccountUseCase(
		c.config,
		txManager,
		userRepository,
		c.SecretService(),
		tokenUseCase,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for account use case: %w", err)
		}
		return accountUseCase.NewAccountUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAccountHandler creates the account HTTP handler.
func (c *Container) initAccountHandler() (*accountHTTP.AccountHandler, error) {
	useCase, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for account handler: %w", err)
	}
	return accountHTTP.NewAccountHandler(useCase, c.Logger()), nil
}
