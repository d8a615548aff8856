package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/xplorehub/internal/services/api/aiseed"
	"github.com/louisbranch/xplorehub/internal/services/api/authtoken"
	"github.com/louisbranch/xplorehub/internal/services/api/geocoding"
	"github.com/louisbranch/xplorehub/internal/services/api/media"
	"github.com/louisbranch/xplorehub/internal/services/api/service"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

// Config holds the API runtime settings.
type Config struct {
	Addr   string
	DBPath string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// PublicURL prefixes locally stored media URLs.
	PublicURL  string
	MediaDir   string
	Cloudinary media.CloudinaryConfig

	NominatimURL       string
	NominatimUserAgent string
	GeocodeRate        float64

	GeminiAPIKey string
	GeminiModels []string

	SeedUserName  string
	SeedUserEmail string

	Logger *zap.Logger
}

// Dependencies are the collaborators built from Config.
type Dependencies struct {
	Service  *service.Service
	Geocoder geocoding.Geocoder
	// MediaDir is set when uploads are stored on local disk.
	MediaDir string
}

// NewDependencies wires the service graph on top of store.
func NewDependencies(ctx context.Context, cfg Config, store storage.Store) (Dependencies, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tokens, err := authtoken.NewManager(authtoken.Config{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return Dependencies{}, err
	}

	geocoder, err := geocoding.New(geocoding.Config{
		BaseURL:           cfg.NominatimURL,
		UserAgent:         cfg.NominatimUserAgent,
		RequestsPerSecond: cfg.GeocodeRate,
		Logger:            logger.Named("geocoding"),
	})
	if err != nil {
		return Dependencies{}, err
	}

	generator, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return Dependencies{}, err
	}

	backend, mediaDir, err := newMediaBackend(cfg)
	if err != nil {
		return Dependencies{}, err
	}

	svc, err := service.New(service.Config{
		Store:     store,
		Tokens:    tokens,
		Geocoder:  geocoder,
		Generator: generator,
		Uploader:  media.NewUploader(backend, logger.Named("media")),
		SeedUser:  service.SeedUser{Name: cfg.SeedUserName, Email: cfg.SeedUserEmail},
		Logger:    logger,
	})
	if err != nil {
		return Dependencies{}, err
	}
	return Dependencies{Service: svc, Geocoder: geocoder, MediaDir: mediaDir}, nil
}

// newGenerator returns a generator without a model when no API key is set;
// seeding then reports itself unavailable.
func newGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*aiseed.Generator, error) {
	genCfg := aiseed.Config{Models: cfg.GeminiModels, Logger: logger.Named("aiseed")}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		logger.Info("gemini api key not set, ai seeding disabled")
		return aiseed.NewGenerator(genCfg), nil
	}
	gemini, err := aiseed.NewGemini(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	genCfg.Text = gemini
	return aiseed.NewGenerator(genCfg), nil
}

func newMediaBackend(cfg Config) (media.Backend, string, error) {
	if cfg.Cloudinary.Enabled() {
		cld, err := media.NewCloudinary(cfg.Cloudinary)
		if err != nil {
			return nil, "", err
		}
		return cld, "", nil
	}
	if strings.TrimSpace(cfg.MediaDir) == "" {
		return nil, "", nil
	}
	disk, err := media.NewDisk(cfg.MediaDir, cfg.PublicURL)
	if err != nil {
		return nil, "", fmt.Errorf("open media dir: %w", err)
	}
	return disk, disk.Dir(), nil
}
