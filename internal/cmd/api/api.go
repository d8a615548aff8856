// Package api parses API service configuration and launches the service.
package api

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/pflag"

	entrypoint "github.com/louisbranch/xplorehub/internal/platform/cmd"
	"github.com/louisbranch/xplorehub/internal/platform/config"
	"github.com/louisbranch/xplorehub/internal/platform/logging"
	"github.com/louisbranch/xplorehub/internal/services/api/app"
	"github.com/louisbranch/xplorehub/internal/services/api/media"
)

// Config holds API command configuration.
type Config struct {
	Addr      string        `env:"API_ADDR" envDefault:":8080"`
	DBPath    string        `env:"API_DB_PATH" envDefault:"data/api.db"`
	PublicURL string        `env:"API_PUBLIC_URL"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"xplorehub"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"24h"`

	MediaDir           string  `env:"MEDIA_DIR" envDefault:"data/media"`
	CloudinaryURL      string  `env:"CLOUDINARY_URL"`
	CloudinaryName     string  `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryKey      string  `env:"CLOUDINARY_API_KEY"`
	CloudinarySecret   string  `env:"CLOUDINARY_API_SECRET"`
	NominatimURL       string  `env:"NOMINATIM_URL"`
	NominatimUserAgent string  `env:"NOMINATIM_USER_AGENT"`
	GeocodeRate        float64 `env:"GEOCODE_RATE" envDefault:"1"`

	GeminiAPIKey string   `env:"GEMINI_API_KEY"`
	GeminiModels []string `env:"GEMINI_MODELS" envSeparator:","`

	SeedUserName  string `env:"SEED_USER_NAME" envDefault:"XploreHub"`
	SeedUserEmail string `env:"SEED_USER_EMAIL" envDefault:"seed@xplorehub.local"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *pflag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.MediaDir, "media-dir", cfg.MediaDir, "Directory for locally stored uploads")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "Public base URL used in media links")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := config.MustNotBeEmpty(map[string]string{"JWT_SECRET": strings.TrimSpace(cfg.JWTSecret)}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AppConfig converts command settings into the runtime configuration.
func (c Config) AppConfig() app.Config {
	return app.Config{
		Addr:      c.Addr,
		DBPath:    c.DBPath,
		JWTSecret: c.JWTSecret,
		JWTIssuer: c.JWTIssuer,
		TokenTTL:  c.TokenTTL,
		PublicURL: c.PublicURL,
		MediaDir:  c.MediaDir,
		Cloudinary: media.CloudinaryConfig{
			URL:       c.CloudinaryURL,
			CloudName: c.CloudinaryName,
			APIKey:    c.CloudinaryKey,
			APISecret: c.CloudinarySecret,
		},
		NominatimURL:       c.NominatimURL,
		NominatimUserAgent: c.NominatimUserAgent,
		GeocodeRate:        c.GeocodeRate,
		GeminiAPIKey:       c.GeminiAPIKey,
		GeminiModels:       c.GeminiModels,
		SeedUserName:       c.SeedUserName,
		SeedUserEmail:      c.SeedUserEmail,
	}
}

// Run starts the REST API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAPI, func(ctx context.Context) error {
		appCfg := cfg.AppConfig()
		appCfg.Logger = logging.FromContext(ctx)
		return app.Run(ctx, appCfg)
	})
}
