// Package web parses web frontend configuration and launches the service.
package web

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	entrypoint "github.com/louisbranch/xplorehub/internal/platform/cmd"
	"github.com/louisbranch/xplorehub/internal/platform/config"
	"github.com/louisbranch/xplorehub/internal/platform/logging"
	"github.com/louisbranch/xplorehub/internal/services/web/app"
)

// Config holds web command configuration.
type Config struct {
	Addr                string `env:"WEB_ADDR" envDefault:":3000"`
	APIURL              string `env:"WEB_API_URL" envDefault:"http://localhost:8080"`
	TrustForwardedProto bool   `env:"WEB_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *pflag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Base URL of the REST API")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto from a reverse proxy")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if err := config.MustNotBeEmpty(map[string]string{"WEB_API_URL": cfg.APIURL}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web frontend.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		return app.Run(ctx, app.Config{
			Addr:                cfg.Addr,
			APIURL:              cfg.APIURL,
			TrustForwardedProto: cfg.TrustForwardedProto,
			Logger:              logging.FromContext(ctx),
		})
	})
}
