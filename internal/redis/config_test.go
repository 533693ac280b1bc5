package redis

import "testing"

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.PoolSize != 10 {
		t.Errorf("expected default pool_size 10, got %d", cfg.PoolSize)
	}
	if cfg.DialTimeout != "5s" {
		t.Errorf("expected default dial_timeout 5s, got %q", cfg.DialTimeout)
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
		t.Error("expected error for missing addr")
	}

	enabled.Addr = "localhost:6379"
	if err := enabled.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	enabled.ReadTimeout = "fast"
	if err := enabled.Validate(); err == nil {
		t.Error("expected error for invalid read_timeout")
	}
}
