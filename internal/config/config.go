// Package config defines the service configuration tree and its loader.
// Configuration comes from a config.yml file, a .env file, and process
// environment variables, in increasing order of precedence.
package config

import (
	"fmt"

	"github.com/skillsenselab/prodman/internal/auth"
	"github.com/skillsenselab/prodman/internal/database"
	"github.com/skillsenselab/prodman/internal/logger"
	"github.com/skillsenselab/prodman/internal/redis"
	"github.com/skillsenselab/prodman/internal/server"
	"github.com/skillsenselab/prodman/internal/storage"
)

// AuthConfig groups the authentication settings.
type AuthConfig struct {
	Token      auth.TokenConfig      `mapstructure:"token"`
	Password   auth.HasherConfig     `mapstructure:"password"`
	Revocation auth.RevocationConfig `mapstructure:"revocation"`
}

// Config is the full service configuration tree.
type Config struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`

	Logging  logger.Config   `mapstructure:"logging"`
	Server   server.Config   `mapstructure:"server"`
	Auth     AuthConfig      `mapstructure:"auth"`
	Database database.Config `mapstructure:"database"`
	Redis    redis.Config    `mapstructure:"redis"`
	Storage  storage.Config  `mapstructure:"storage"`
}

// IsProduction reports whether the service runs in a production posture.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ApplyDefaults applies default values across the configuration tree.
// In development, a missing JWT secret falls back to the documented
// insecure dev secret so the service starts without setup.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "prodman"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}

	if c.Auth.Token.Secret == "" && !c.IsProduction() {
		c.Auth.Token.Secret = auth.DevSecret
	}

	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.Token.ApplyDefaults()
	c.Auth.Password.ApplyDefaults()
	c.Auth.Revocation.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Storage.ApplyDefaults()
}

// Validate validates the configuration tree. A production process refuses
// to start with a missing or development JWT secret.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}

	if c.IsProduction() && (c.Auth.Token.Secret == "" || c.Auth.Token.Secret == auth.DevSecret) {
		return fmt.Errorf("config.auth.token.secret must be set to a real secret in production")
	}
	if c.Auth.Revocation.Backend == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("config.auth.revocation.backend is redis but redis is disabled")
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Auth.Token.Validate(); err != nil {
		return fmt.Errorf("config.auth.token: %w", err)
	}
	if err := c.Auth.Password.Validate(); err != nil {
		return fmt.Errorf("config.auth.password: %w", err)
	}
	if err := c.Auth.Revocation.Validate(); err != nil {
		return fmt.Errorf("config.auth.revocation: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("config.database: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("config.redis: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("config.storage: %w", err)
	}
	return nil
}
