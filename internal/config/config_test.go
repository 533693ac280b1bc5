package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillsenselab/prodman/internal/auth"
)

func TestDefaultsDevelopment(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("expected development environment, got %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("development should enable debug")
	}
	if cfg.Auth.Token.Secret != auth.DevSecret {
		t.Errorf("development should fall back to the dev secret, got %q", cfg.Auth.Token.Secret)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("development defaults should validate, got %v", err)
	}
}

func TestProductionRefusesDevSecret(t *testing.T) {
	cfg := &Config{Environment: "production"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("production with no secret must refuse to start")
	}

	cfg = &Config{Environment: "production"}
	cfg.Auth.Token.Secret = auth.DevSecret
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("production with the dev secret must refuse to start")
	}

	cfg = &Config{Environment: "production"}
	cfg.Auth.Token.Secret = "a-real-secret"
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("production with a real secret should validate, got %v", err)
	}
}

func TestRedisRevocationRequiresRedis(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.Revocation.Backend = "redis"
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("redis revocation backend without redis enabled must fail validation")
	}

	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestInvalidEnvironment(t *testing.T) {
	cfg := &Config{Environment: "qa"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := strings.TrimSpace(`
name: prodman-test
environment: development
server:
  port: 9090
auth:
  token:
    access_token_ttl_minutes: 30
`)
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "prodman-test" {
		t.Errorf("expected name prodman-test, got %q", cfg.Name)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Auth.Token.AccessTokenTTLMinutes != 30 {
		t.Errorf("expected 30 minute TTL, got %d", cfg.Auth.Token.AccessTokenTTLMinutes)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: prodman-test\nserver:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("AUTH_TOKEN_SECRET", "env-secret")

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("env var should override yaml, got port %d", cfg.Server.Port)
	}
	if cfg.Auth.Token.Secret != "env-secret" {
		t.Errorf("expected env secret, got %q", cfg.Auth.Token.Secret)
	}
}

func TestIncidentalEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "environment: staging\nversion: 1.2.3\ndebug: false\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Generic variables common in CI images must not leak into the config.
	t.Setenv("VERSION", "99")
	t.Setenv("DEBUG", "true")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version != "1.2.3" {
		t.Errorf("VERSION env must not override the file, got %q", cfg.Version)
	}
	if cfg.Environment != "staging" {
		t.Errorf("ENVIRONMENT env must not override the file, got %q", cfg.Environment)
	}
	if cfg.Debug {
		t.Error("DEBUG env must not override the file")
	}

	// The prefixed spellings are the supported overrides.
	t.Setenv("APP_VERSION", "2.0.0")
	cfg, err = Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version != "2.0.0" {
		t.Errorf("expected APP_VERSION to override, got %q", cfg.Version)
	}
}

func TestEnvVarName(t *testing.T) {
	if got := envVarName("auth.token.secret"); got != "AUTH_TOKEN_SECRET" {
		t.Errorf("expected AUTH_TOKEN_SECRET, got %q", got)
	}
}
