// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	entrypoint "github.com/louisbranch/xplorehub/internal/platform/cmd"
	"github.com/louisbranch/xplorehub/internal/platform/config"
	"github.com/louisbranch/xplorehub/internal/platform/logging"
	"github.com/louisbranch/xplorehub/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	APIURL    string `env:"MCP_API_URL"   envDefault:"http://localhost:8080"`
	HTTPAddr  string `env:"MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport string `env:"MCP_TRANSPORT" envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *pflag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Base URL of the REST API")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	if err := config.MustNotBeEmpty(map[string]string{"MCP_API_URL": cfg.APIURL}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return service.Run(ctx, service.Config{
			APIURL:    cfg.APIURL,
			Transport: service.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
			Logger:    logging.FromContext(ctx),
		})
	})
}
