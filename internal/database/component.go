package database

import (
	"context"
	"fmt"

	"github.com/skillsenselab/prodman/internal/component"
	"github.com/skillsenselab/prodman/internal/logger"
)

// Component wraps the database in the component lifecycle. Migration models
// are registered before Start; the connection is opened on Start.
type Component struct {
	cfg    Config
	log    *logger.Logger
	db     *DB
	models []interface{}
}

// NewComponent creates a database lifecycle component.
func NewComponent(cfg Config, log *logger.Logger, models ...interface{}) *Component {
	return &Component{cfg: cfg, log: log.WithComponent("database"), models: models}
}

func (c *Component) Name() string { return "database" }

// DB returns the live connection. Valid only after Start succeeds.
func (c *Component) DB() *DB { return c.db }

func (c *Component) Start(ctx context.Context) error {
	db, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	c.db = db

	if c.cfg.AutoMigrate && len(c.models) > 0 {
		if err := db.AutoMigrate(c.models...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}
	return nil
}

func (c *Component) Stop(context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
