package logger

import (
	"context"
	"testing"

	"github.com/skillsenselab/prodman/internal/requestctx"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{Level: "invalid-level", Format: "json", Output: "stdout"}
	if l := New(cfg, "test"); l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
	bad := &Config{Level: "loud", Format: "json"}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	cl := l.WithComponent("handler")
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
}

func TestWithContext(t *testing.T) {
	l := NewDefault("test")
	ctx := requestctx.WithRequestID(context.Background(), "abc123")
	if cl := l.WithContext(ctx); cl == nil {
		t.Fatal("expected non-nil logger")
	}
	// Unresolved contexts must still produce a logger with sentinel fields.
	if cl := l.WithContext(context.Background()); cl == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "save", "id", 42)
	if m["op"] != "save" {
		t.Errorf("expected op=save, got %v", m["op"])
	}
	if m["id"] != 42 {
		t.Errorf("expected id=42, got %v", m["id"])
	}
	if got := len(Fields("dangling")); got != 0 {
		t.Errorf("dangling key should be dropped, got %d entries", got)
	}
}
