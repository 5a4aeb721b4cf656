package app

import (
	"fmt"

	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
	secretsHTTP "github.com/allisson/keyhouse/internal/secrets/http"
	secretsRepository "github.com/allisson/keyhouse/internal/secrets/repository"
	secretsUsecase "github.com/allisson/keyhouse/internal/secrets/usecase"
)

// SecretRepository returns the secret repository based on database driver.
func (c *Container) SecretRepository() (secretsRepository.SecretRepository, error) {
	var err error
	c.secretRepoInit.Do(func() {
		c.secretRepo, err = c.initSecretRepository()
		if err != nil {
			c.initErrors["secretRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretRepo"]; exists {
		return nil, storedErr
	}
	return c.secretRepo, nil
}

func (c *Container) initSecretRepository() (secretsRepository.SecretRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return secretsRepository.NewPostgreSQLSecretRepository(db), nil
	case "mysql":
		return secretsRepository.NewMySQLSecretRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// SecretController returns the Secret Controller.
func (c *Container) SecretController() (secretsUsecase.Controller, error) {
	var err error
	c.secretControllerInit.Do(func() {
		c.secretController, err = c.initSecretController()
		if err != nil {
			c.initErrors["secretController"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretController"]; exists {
		return nil, storedErr
	}
	return c.secretController, nil
}

func (c *Container) initSecretController() (secretsUsecase.Controller, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret controller: %w", err)
	}

	repo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret controller: %w", err)
	}

	cryptographer, err := c.Cryptographer()
	if err != nil {
		return nil, fmt.Errorf("failed to get cryptographer for secret controller: %w", err)
	}

	aclEngine, err := c.ACLEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get acl engine for secret controller: %w", err)
	}

	eventUseCase, err := c.EventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event usecase for secret controller: %w", err)
	}

	accessGranter := accessUsecase.NewAccessGranterAdapter(aclEngine)

	return secretsUsecase.NewController(
		txManager,
		repo,
		cryptographer,
		c.Extractor(),
		accessGranter,
		eventUseCase,
	), nil
}

// SecretHandler returns the HTTP handler for the automation secrets API.
func (c *Container) SecretHandler() (*secretsHTTP.SecretHandler, error) {
	var err error
	c.secretHandlerInit.Do(func() {
		c.secretHandler, err = c.initSecretHandler()
		if err != nil {
			c.initErrors["secretHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretHandler"]; exists {
		return nil, storedErr
	}
	return c.secretHandler, nil
}

func (c *Container) initSecretHandler() (*secretsHTTP.SecretHandler, error) {
	controller, err := c.SecretController()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret controller for secret handler: %w", err)
	}

	aclEngine, err := c.ACLEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get acl engine for secret handler: %w", err)
	}

	groupUsecase, err := c.GroupUsecase()
	if err != nil {
		return nil, fmt.Errorf("failed to get group usecase for secret handler: %w", err)
	}

	return secretsHTTP.NewSecretHandler(controller, aclEngine, groupUsecase, c.Logger()), nil
}
