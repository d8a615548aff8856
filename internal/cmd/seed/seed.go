// Package seed builds the seed command tree that fills the API database
// with fixtures or AI generated events.
package seed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	entrypoint "github.com/louisbranch/xplorehub/internal/platform/cmd"
	"github.com/louisbranch/xplorehub/internal/platform/logging"
	apiapp "github.com/louisbranch/xplorehub/internal/services/api/app"
	"github.com/louisbranch/xplorehub/internal/services/api/aiseed"
	"github.com/louisbranch/xplorehub/internal/services/api/service"
	"github.com/louisbranch/xplorehub/internal/services/api/storage/sqlite"
	"github.com/louisbranch/xplorehub/internal/tools/seed"
)

// Config holds seed command configuration. It reads the same variables as
// the API so both processes open the same database.
type Config struct {
	DBPath string `env:"API_DB_PATH" envDefault:"data/api.db"`

	NominatimURL       string  `env:"NOMINATIM_URL"`
	NominatimUserAgent string  `env:"NOMINATIM_USER_AGENT"`
	GeocodeRate        float64 `env:"GEOCODE_RATE" envDefault:"1"`

	GeminiAPIKey string   `env:"GEMINI_API_KEY"`
	GeminiModels []string `env:"GEMINI_MODELS" envSeparator:","`

	SeedUserName  string `env:"SEED_USER_NAME" envDefault:"XploreHub"`
	SeedUserEmail string `env:"SEED_USER_EMAIL" envDefault:"seed@xplorehub.local"`
}

// ParseConfig loads environment defaults into Config.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Execute runs the command tree with telemetry and logging attached.
func Execute(ctx context.Context, cfg Config, args []string, out, errOut io.Writer) error {
	cmd := NewCommand(&cfg, out)
	cmd.SetArgs(args)
	cmd.SetErr(errOut)
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return cmd.ExecuteContext(ctx)
	})
}

// NewCommand returns the seed root command bound to cfg.
func NewCommand(cfg *Config, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Fill the XploreHub database with demo data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	root.AddCommand(newFixturesCommand(cfg), newRegionCommand(cfg), newModelsCommand(cfg))
	return root
}

func newFixturesCommand(cfg *Config) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Apply a YAML fixtures file, skipping existing accounts and events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fx, err := seed.LoadFixtures(file)
			if err != nil {
				return err
			}
			return withService(cmd.Context(), *cfg, func(svc *service.Service) error {
				runner, err := seed.New(seed.Config{
					Service: svc,
					Logger:  logging.FromContext(cmd.Context()),
				})
				if err != nil {
					return err
				}
				report, err := runner.Apply(cmd.Context(), fx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), report)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "fixtures YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRegionCommand(cfg *Config) *cobra.Command {
	var region aiseed.Region
	cmd := &cobra.Command{
		Use:   "region",
		Short: "Generate events for a region with the configured AI models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), *cfg, func(svc *service.Service) error {
				events, err := svc.SeedRegion(cmd.Context(), region)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "ID\tDATE\tPRICE\tTITLE")
				for _, ev := range events {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ev.ID, ev.Date.UTC().Format(time.RFC3339), ev.Price(), ev.Title)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&region.City, "city", "", "city to seed")
	cmd.Flags().StringVar(&region.State, "state", "", "state or province of the city")
	cmd.Flags().StringVar(&region.Country, "country", "", "country of the city")
	for _, name := range []string{"city", "state", "country"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newModelsCommand(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the generative models available to the seeder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), *cfg, func(svc *service.Service) error {
				models, err := svc.ListModels(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "MODEL\tACTIONS")
				for _, m := range models {
					_, _ = fmt.Fprintf(w, "%s\t%s\n", m.Name, strings.Join(m.Actions, ","))
				}
				return w.Flush()
			})
		},
	}
}

// withService opens the database and builds the API service graph for one
// command. Tokens are never issued here, so the signing secret is random.
func withService(ctx context.Context, cfg Config, run func(*service.Service) error) error {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open api store: %w", err)
	}
	defer store.Close()

	secret, err := randomSecret()
	if err != nil {
		return err
	}
	deps, err := apiapp.NewDependencies(ctx, apiapp.Config{
		JWTSecret:          secret,
		NominatimURL:       cfg.NominatimURL,
		NominatimUserAgent: cfg.NominatimUserAgent,
		GeocodeRate:        cfg.GeocodeRate,
		GeminiAPIKey:       cfg.GeminiAPIKey,
		GeminiModels:       cfg.GeminiModels,
		SeedUserName:       cfg.SeedUserName,
		SeedUserEmail:      cfg.SeedUserEmail,
		Logger:             logging.FromContext(ctx),
	}, store)
	if err != nil {
		return err
	}
	return run(deps.Service)
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate signing secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
