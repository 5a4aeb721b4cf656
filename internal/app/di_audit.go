package app

import (
	"fmt"

	auditRepository "github.com/allisson/keyhouse/internal/audit/repository"
	auditUsecase "github.com/allisson/keyhouse/internal/audit/usecase"
)

// EventRepository returns the audit event repository based on database driver.
func (c *Container) EventRepository() (auditRepository.EventRepository, error) {
	var err error
	c.eventRepoInit.Do(func() {
		c.eventRepo, err = c.initEventRepository()
		if err != nil {
			c.initErrors["eventRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRepo"]; exists {
		return nil, storedErr
	}
	return c.eventRepo, nil
}

func (c *Container) initEventRepository() (auditRepository.EventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return auditRepository.NewPostgreSQLEventRepository(db), nil
	case "mysql":
		return auditRepository.NewMySQLEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// EventUseCase returns the Audit Event Usecase (the Recorder the rest of
// the application depends on for writing audit events).
func (c *Container) EventUseCase() (auditUsecase.Usecase, error) {
	var err error
	c.eventUseCaseInit.Do(func() {
		c.eventUseCase, err = c.initEventUseCase()
		if err != nil {
			c.initErrors["eventUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventUseCase"]; exists {
		return nil, storedErr
	}
	return c.eventUseCase, nil
}

func (c *Container) initEventUseCase() (auditUsecase.Usecase, error) {
	repo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for event usecase: %w", err)
	}
	return auditUsecase.NewEventUseCase(repo), nil
}
