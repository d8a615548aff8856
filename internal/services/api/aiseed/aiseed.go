// Package aiseed drafts plausible events for a region with a generative model.
package aiseed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/otel"
	"github.com/louisbranch/xplorehub/internal/platform/timeouts"
	"github.com/louisbranch/xplorehub/internal/services/api/event"
)

// DefaultModels are tried in order until one answers.
var DefaultModels = []string{"gemini-2.5-flash", "gemini-2.5-flash-lite", "gemini-2.0-flash"}

var (
	// ErrRegionIncomplete indicates a region without city, state or country.
	ErrRegionIncomplete = apperrors.New(apperrors.CodeSeedRegionIncomplete, "city, state and country are required")
	// ErrUnavailable indicates no text model is configured.
	ErrUnavailable = apperrors.New(apperrors.CodeSeedUnavailable, "event generation is not configured")
	// ErrGenerationFailed indicates every model failed or the answer was unusable.
	ErrGenerationFailed = apperrors.New(apperrors.CodeSeedGenerationFailed, "could not generate events for this region")
)

// Category groups generated events for image selection.
type Category string

const (
	CategoryTech    Category = "tech"
	CategoryMusic   Category = "music"
	CategoryFood    Category = "food"
	CategoryParty   Category = "party"
	CategoryCulture Category = "culture"
)

var categoryImages = map[Category][]string{
	CategoryTech: {
		"photo-1518770660439-4636190af475",
		"photo-1550751827-4bd374c3f58b",
		"photo-1519389950473-47ba0277781c",
	},
	CategoryMusic: {
		"photo-1514525253361-bee87184919a",
		"photo-1470225620780-dba8ba36b745",
		"photo-1511671782779-c97d3d27a1d4",
	},
	CategoryFood: {
		"photo-1504674900247-0877df9cc836",
		"photo-1555939594-58d7cb561ad1",
		"photo-1414235077428-338989a2e8c0",
	},
	CategoryParty: {
		"photo-1492684223066-81342ee5ff30",
		"photo-1516450360452-9312f5e86fc7",
		"photo-1533174072545-7a4b6ad7a6c3",
	},
	CategoryCulture: {
		"photo-1460661419201-fd4cecdf8a8b",
		"photo-1533105079780-92b9be482077",
		"photo-1533551268962-824e232f7ee1",
	},
}

// ParseCategory maps free text to a known category, defaulting to party.
func ParseCategory(value string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := categoryImages[c]; ok {
		return c
	}
	return CategoryParty
}

// Region is the place to seed.
type Region struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Normalize trims and validates all three parts.
func (r Region) Normalize() (Region, error) {
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.Country = strings.TrimSpace(r.Country)
	if r.City == "" || r.State == "" || r.Country == "" {
		return Region{}, ErrRegionIncomplete
	}
	return r, nil
}

// Key identifies a region case-insensitively.
func (r Region) Key() string {
	return strings.ToLower(r.City + "|" + r.State + "|" + r.Country)
}

// Idea is one event proposed by the model.
type Idea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Street      string `json:"street"`
	Category    string `json:"category"`
}

// Config configures a Generator.
type Config struct {
	Text   TextModel
	Models []string
	Logger *zap.Logger
	Now    func() time.Time
	// IntN returns a number in [0, n). Defaults to math/rand/v2.
	IntN func(n int) int
}

// Generator turns model output into event drafts.
type Generator struct {
	text   TextModel
	models []string
	logger *zap.Logger
	now    func() time.Time
	intN   func(n int) int
}

// NewGenerator builds a Generator. A nil Text yields a generator that
// reports ErrUnavailable.
func NewGenerator(cfg Config) *Generator {
	models := cfg.Models
	if len(models) == 0 {
		models = DefaultModels
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	intN := cfg.IntN
	if intN == nil {
		intN = rand.IntN
	}
	return &Generator{text: cfg.Text, models: models, logger: logger, now: now, intN: intN}
}

// Available reports whether a text model is configured.
func (g *Generator) Available() bool {
	return g != nil && g.text != nil
}

// Prompt renders the generation prompt for region.
func Prompt(region Region) string {
	return fmt.Sprintf(`Generate a JSON array with 5 realistic fictional events for %s, %s, %s.
Use real street names. Write titles and descriptions in the local language.
Return pure JSON: [{"title": "...", "description": "...", "street": "...", "category": "tech or music or food or party or culture"}]`,
		region.City, region.State, region.Country)
}

// Ideas asks the configured models, in order, for event ideas.
func (g *Generator) Ideas(ctx context.Context, region Region) ([]Idea, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}
	region, err := region.Normalize()
	if err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer().Start(ctx, "aiseed.ideas")
	defer span.End()
	span.SetAttributes(attribute.String("seed.city", region.City))

	text, err := g.generate(ctx, Prompt(region))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ideas, err := ParseIdeas(text)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		g.logger.Warn("unusable generation", zap.String("city", region.City), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.CodeSeedGenerationFailed, "could not generate events for this region", err)
	}
	span.SetAttributes(attribute.Int("seed.ideas", len(ideas)))
	return ideas, nil
}

func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	for _, model := range g.models {
		attemptCtx, cancel := context.WithTimeout(ctx, timeouts.Generation)
		text, err := g.text.GenerateText(attemptCtx, model, prompt)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			g.logger.Warn("model failed", zap.String("model", model), zap.Error(err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			g.logger.Warn("model returned no text", zap.String("model", model))
			continue
		}
		g.logger.Debug("model answered", zap.String("model", model))
		return text, nil
	}
	return "", ErrGenerationFailed
}

// ListModels returns the provider's model catalog.
func (g *Generator) ListModels(ctx context.Context) ([]Model, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}
	models, err := g.text.ListModels(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSeedGenerationFailed, "could not list models", err)
	}
	return models, nil
}

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	bareArray  = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)
)

// ParseIdeas extracts the JSON array from a model answer: a fenced json
// block, else the first array of objects, else the whole text.
func ParseIdeas(text string) ([]Idea, error) {
	payload := text
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		payload = m[1]
	} else if m := bareArray.FindString(text); m != "" {
		payload = m
	}
	var ideas []Idea
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &ideas); err != nil {
		return nil, fmt.Errorf("parse ideas: %w", err)
	}
	if len(ideas) == 0 {
		return nil, fmt.Errorf("parse ideas: empty array")
	}
	return ideas, nil
}

// Draft fills the random parts of an event for idea: an image for its
// category, a date 2 to 17 days ahead, a price up to 60.00 and a capacity
// of 50 to 149.
func (g *Generator) Draft(idea Idea, region Region) event.CreateInput {
	images := categoryImages[ParseCategory(idea.Category)]
	image := images[g.intN(len(images))]

	offset := 2*24*time.Hour + time.Duration(g.intN(15*24*60))*time.Minute
	date := g.now().UTC().Add(offset).Truncate(time.Minute)
	capacity := 50 + g.intN(100)

	return event.CreateInput{
		Title:        strings.TrimSpace(idea.Title),
		Description:  strings.TrimSpace(idea.Description),
		Date:         date.Format(time.RFC3339),
		MaxAttendees: &capacity,
		Price:        event.FormatPrice(int64(g.intN(6001))),
		ImageURL:     ImageURL(image),
		Address: event.Address{
			Street:  strings.TrimSpace(idea.Street),
			City:    region.City,
			State:   region.State,
			Country: region.Country,
		},
	}
}

// ImageURL renders the Unsplash URL of a curated photo id.
func ImageURL(photoID string) string {
	return "https://images.unsplash.com/" + photoID + "?auto=format&fit=crop&w=1200&q=80"
}
