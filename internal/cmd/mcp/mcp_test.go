package mcp

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(pflag.NewFlagSet("mcp", pflag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Fatalf("expected default api url, got %q", cfg.APIURL)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("XPLOREHUB_MCP_API_URL", "http://env-api:8080/")
	t.Setenv("XPLOREHUB_MCP_HTTP_ADDR", "env-http")

	args := []string{"--http-addr", "flag-http", "--transport", "HTTP"}
	cfg, err := ParseConfig(pflag.NewFlagSet("mcp", pflag.ContinueOnError), args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.APIURL != "http://env-api:8080" {
		t.Fatalf("expected env api url without trailing slash, got %q", cfg.APIURL)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
}
