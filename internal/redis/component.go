package redis

import (
	"context"

	"github.com/skillsenselab/prodman/internal/component"
	"github.com/skillsenselab/prodman/internal/logger"
)

// Component wraps the Redis client in the component lifecycle.
type Component struct {
	cfg    Config
	log    *logger.Logger
	client *Client
}

// NewComponent creates a Redis lifecycle component.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{cfg: cfg, log: log.WithComponent("redis")}
}

func (c *Component) Name() string { return "redis" }

// Client returns the live client. Valid only after Start succeeds.
func (c *Component) Client() *Client { return c.client }

func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return err
	}
	c.client = client
	return nil
}

func (c *Component) Stop(context.Context) error {
	return c.client.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
