// Package geocoding resolves addresses to coordinates and back through a
// Nominatim-compatible HTTP endpoint.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/otel"
	"github.com/louisbranch/xplorehub/internal/platform/timeouts"
)

const (
	// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// DefaultUserAgent identifies the application as Nominatim's usage policy requires.
	DefaultUserAgent = "XploreHub/1.0 (+https://github.com/louisbranch/xplorehub)"

	defaultCacheTTL  = 24 * time.Hour
	defaultCacheSize = 1024
	maxResponseBytes = 1 << 20
)

var (
	// ErrNoResult indicates the upstream found nothing, or failed.
	ErrNoResult = apperrors.New(apperrors.CodeGeocodingNoResult, "no geocoding result")
	// ErrAddressIncomplete indicates a structured lookup missing required parts.
	ErrAddressIncomplete = apperrors.New(apperrors.CodeGeocodingAddressIncomplete, "street, city, state and country are required")
	// ErrQueryEmpty indicates a blank free-text lookup.
	ErrQueryEmpty = apperrors.New(apperrors.CodeGeocodingQueryEmpty, "query is required")
	// ErrCoordinateInvalid indicates a latitude or longitude out of range.
	ErrCoordinateInvalid = apperrors.New(apperrors.CodeGeocodingCoordinateInvalid, "latitude and longitude must be valid numbers")
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is the coarse location returned by reverse lookups.
type Place struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// AddressQuery is a structured forward lookup.
type AddressQuery struct {
	Street  string
	City    string
	State   string
	Country string
}

// Text renders the query sent upstream.
func (q AddressQuery) Text() string {
	return strings.Join([]string{q.Street, q.City, q.State, q.Country}, ", ")
}

func (q AddressQuery) normalize() (AddressQuery, error) {
	q.Street = strings.TrimSpace(q.Street)
	q.City = strings.TrimSpace(q.City)
	q.State = strings.TrimSpace(q.State)
	q.Country = strings.TrimSpace(q.Country)
	if q.Street == "" || q.City == "" || q.State == "" || q.Country == "" {
		return AddressQuery{}, ErrAddressIncomplete
	}
	return q, nil
}

// Geocoder is the lookup surface consumed by services.
type Geocoder interface {
	Coordinates(ctx context.Context, address AddressQuery) (Coordinates, error)
	CoordinatesByQuery(ctx context.Context, query string) (Coordinates, error)
	Reverse(ctx context.Context, lat float64, lng float64) (Place, error)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	// RequestsPerSecond limits upstream calls; burst is always one.
	RequestsPerSecond float64
	CacheTTL          time.Duration
	CacheSize         int
	Logger            *zap.Logger
}

// Client is a rate-limited, caching Nominatim client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	group      singleflight.Group
	cache      *expirable.LRU[string, any]
	logger     *zap.Logger
}

// New builds a Client from cfg, applying defaults for zero fields.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse geocoding base url: %w", err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeouts.Geocoding,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Limit(1)
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		cache:      expirable.NewLRU[string, any](size, nil, ttl),
		logger:     logger,
	}, nil
}

// Coordinates resolves a structured address.
func (c *Client) Coordinates(ctx context.Context, address AddressQuery) (Coordinates, error) {
	address, err := address.normalize()
	if err != nil {
		return Coordinates{}, err
	}
	return c.search(ctx, address.Text())
}

// CoordinatesByQuery resolves free text.
func (c *Client) CoordinatesByQuery(ctx context.Context, query string) (Coordinates, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Coordinates{}, ErrQueryEmpty
	}
	return c.search(ctx, query)
}

// Reverse resolves a point to city, state and country.
func (c *Client) Reverse(ctx context.Context, lat float64, lng float64) (Place, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Place{}, ErrCoordinateInvalid
	}
	latText := strconv.FormatFloat(lat, 'f', 6, 64)
	lngText := strconv.FormatFloat(lng, 'f', 6, 64)
	key := "reverse:" + latText + "," + lngText
	value, err := c.lookup(ctx, "geocoding.reverse", key, func(ctx context.Context) (any, error) {
		params := url.Values{}
		params.Set("format", "json")
		params.Set("lat", latText)
		params.Set("lon", lngText)
		params.Set("zoom", "10")
		params.Set("addressdetails", "1")
		var body reverseResponse
		if err := c.getJSON(ctx, "/reverse", params, &body); err != nil {
			return nil, err
		}
		if body.Address == nil {
			return nil, ErrNoResult
		}
		return body.Address.place(), nil
	})
	if err != nil {
		return Place{}, err
	}
	return value.(Place), nil
}

func (c *Client) search(ctx context.Context, query string) (Coordinates, error) {
	key := "search:" + strings.ToLower(query)
	value, err := c.lookup(ctx, "geocoding.search", key, func(ctx context.Context) (any, error) {
		params := url.Values{}
		params.Set("format", "json")
		params.Set("q", query)
		params.Set("limit", "1")
		var body []searchResult
		if err := c.getJSON(ctx, "/search", params, &body); err != nil {
			return nil, err
		}
		if len(body) == 0 {
			return nil, ErrNoResult
		}
		lat, latErr := strconv.ParseFloat(body[0].Lat, 64)
		lng, lngErr := strconv.ParseFloat(body[0].Lon, 64)
		if latErr != nil || lngErr != nil {
			return nil, fmt.Errorf("parse coordinates %q,%q", body[0].Lat, body[0].Lon)
		}
		return Coordinates{Lat: lat, Lng: lng}, nil
	})
	if err != nil {
		return Coordinates{}, err
	}
	return value.(Coordinates), nil
}

// lookup serves key from cache, or runs fetch once for all concurrent
// callers of the same key. The shared fetch is detached from the caller
// that started it; each caller stops waiting when its own ctx ends.
// Upstream failures are logged and reported as ErrNoResult.
func (c *Client) lookup(ctx context.Context, spanName string, key string, fetch func(context.Context) (any, error)) (any, error) {
	if value, ok := c.cache.Get(key); ok {
		return value, nil
	}
	ctx, span := otel.Tracer().Start(ctx, spanName)
	defer span.End()
	span.SetAttributes(attribute.String("geocoding.key", key))

	results := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Geocoding)
		defer cancel()
		if err := c.limiter.Wait(fetchCtx); err != nil {
			return nil, err
		}
		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, value)
		return value, nil
	})

	var result singleflight.Result
	select {
	case <-ctx.Done():
		span.SetStatus(codes.Error, ctx.Err().Error())
		return nil, ctx.Err()
	case result = <-results:
	}
	span.SetAttributes(attribute.Bool("geocoding.shared", result.Shared))
	if result.Err != nil {
		if !errors.Is(result.Err, ErrNoResult) {
			span.SetStatus(codes.Error, result.Err.Error())
			c.logger.Warn("geocoding lookup failed", zap.String("key", key), zap.Error(result.Err))
		}
		return nil, ErrNoResult
	}
	return result.Val, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type reverseResponse struct {
	Address *reverseAddress `json:"address"`
}

type reverseAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

func (a reverseAddress) place() Place {
	city := ""
	for _, candidate := range []string{a.City, a.Town, a.Village, a.Municipality, a.County} {
		if strings.TrimSpace(candidate) != "" {
			city = candidate
			break
		}
	}
	return Place{City: city, State: a.State, Country: a.Country}
}

var _ Geocoder = (*Client)(nil)
