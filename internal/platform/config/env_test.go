package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port    int           `env:"TEST_PORT" envDefault:"123"`
	Timeout time.Duration `env:"TEST_TIMEOUT" envDefault:"2s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.Timeout != 2*time.Second {
		t.Fatalf("expected default timeout 2s, got %s", cfg.Timeout)
	}
}

func TestParseEnvUsesPrefix(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("TEST_PORT", "999")
	t.Setenv("XPLOREHUB_TEST_PORT", "456")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 456 {
		t.Fatalf("expected prefixed port 456, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("XPLOREHUB_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestMustNotBeEmpty(t *testing.T) {
	if err := MustNotBeEmpty(map[string]string{"JWT_SECRET": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := MustNotBeEmpty(map[string]string{"JWT_SECRET": ""})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "XPLOREHUB_JWT_SECRET") {
		t.Fatalf("expected variable name in error, got %v", err)
	}
}
