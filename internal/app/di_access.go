package app

import (
	"fmt"

	accessRepository "github.com/allisson/keyhouse/internal/access/repository"
	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
)

// ClientRepository returns the client repository based on database driver.
func (c *Container) ClientRepository() (accessRepository.ClientRepository, error) {
	var err error
	c.clientRepoInit.Do(func() {
		c.clientRepo, err = c.initClientRepository()
		if err != nil {
			c.initErrors["clientRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientRepo"]; exists {
		return nil, storedErr
	}
	return c.clientRepo, nil
}

func (c *Container) initClientRepository() (accessRepository.ClientRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for client repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLClientRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLClientRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// GroupRepository returns the group repository based on database driver.
func (c *Container) GroupRepository() (accessRepository.GroupRepository, error) {
	var err error
	c.groupRepoInit.Do(func() {
		c.groupRepo, err = c.initGroupRepository()
		if err != nil {
			c.initErrors["groupRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["groupRepo"]; exists {
		return nil, storedErr
	}
	return c.groupRepo, nil
}

func (c *Container) initGroupRepository() (accessRepository.GroupRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for group repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLGroupRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLGroupRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// AccessRepository returns the access-grant repository based on database driver.
func (c *Container) AccessRepository() (accessRepository.AccessRepository, error) {
	var err error
	c.accessRepoInit.Do(func() {
		c.accessRepo, err = c.initAccessRepository()
		if err != nil {
			c.initErrors["accessRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessRepo"]; exists {
		return nil, storedErr
	}
	return c.accessRepo, nil
}

func (c *Container) initAccessRepository() (accessRepository.AccessRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for access repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return accessRepository.NewPostgreSQLAccessRepository(db), nil
	case "mysql":
		return accessRepository.NewMySQLAccessRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// ClientUsecase returns the Client Usecase.
func (c *Container) ClientUsecase() (accessUsecase.ClientUsecase, error) {
	var err error
	c.clientUsecaseInit.Do(func() {
		c.clientUsecase, err = c.initClientUsecase()
		if err != nil {
			c.initErrors["clientUsecase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["clientUsecase"]; exists {
		return nil, storedErr
	}
	return c.clientUsecase, nil
}

func (c *Container) initClientUsecase() (accessUsecase.ClientUsecase, error) {
	repo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for client usecase: %w", err)
	}
	return accessUsecase.NewClientUsecase(repo), nil
}

// GroupUsecase returns the Group Usecase.
func (c *Container) GroupUsecase() (accessUsecase.GroupUsecase, error) {
	var err error
	c.groupUsecaseInit.Do(func() {
		c.groupUsecase, err = c.initGroupUsecase()
		if err != nil {
			c.initErrors["groupUsecase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["groupUsecase"]; exists {
		return nil, storedErr
	}
	return c.groupUsecase, nil
}

func (c *Container) initGroupUsecase() (accessUsecase.GroupUsecase, error) {
	repo, err := c.GroupRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get group repository for group usecase: %w", err)
	}
	return accessUsecase.NewGroupUsecase(repo), nil
}

// ACLEngine returns the ACL Engine that reconciles secret/group access grants.
func (c *Container) ACLEngine() (accessUsecase.ACLEngine, error) {
	var err error
	c.aclEngineInit.Do(func() {
		c.aclEngine, err = c.initACLEngine()
		if err != nil {
			c.initErrors["aclEngine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["aclEngine"]; exists {
		return nil, storedErr
	}
	return c.aclEngine, nil
}

func (c *Container) initACLEngine() (accessUsecase.ACLEngine, error) {
	accessRepo, err := c.AccessRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access repository for acl engine: %w", err)
	}

	groupRepo, err := c.GroupRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get group repository for acl engine: %w", err)
	}

	eventUseCase, err := c.EventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event usecase for acl engine: %w", err)
	}

	return accessUsecase.NewACLEngine(accessRepo, groupRepo, eventUseCase), nil
}
