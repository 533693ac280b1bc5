package database

import "testing"

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.MaxOpenConns != 25 {
		t.Errorf("expected default max_open_conns 25, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 5 {
		t.Errorf("expected default max_idle_conns 5, got %d", cfg.MaxIdleConns)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected default log_level warn, got %q", cfg.LogLevel)
	}
}

func TestConfigValidate(t *testing.T) {
	disabled := Config{}
	disabled.ApplyDefaults()
	if err := disabled.Validate(); err != nil {
		t.Errorf("disabled config should validate, got %v", err)
	}

	enabled := Config{Enabled: true}
	enabled.ApplyDefaults()
	if err := enabled.Validate(); err == nil {
		t.Error("expected error for missing dsn")
	}

	enabled.DSN = "host=localhost user=app dbname=prodman"
	if err := enabled.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	enabled.ConnMaxLifetime = "not-a-duration"
	if err := enabled.Validate(); err == nil {
		t.Error("expected error for invalid conn_max_lifetime")
	}
}

func TestConfigIdleBound(t *testing.T) {
	cfg := Config{Enabled: true, DSN: "host=localhost", MaxOpenConns: 5, MaxIdleConns: 10}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when max_idle_conns exceeds max_open_conns")
	}
}
