package domain

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
)

// EventsNearbyInput names the region to search.
type EventsNearbyInput struct {
	City    string `json:"city" jsonschema:"city name"`
	State   string `json:"state" jsonschema:"state or province"`
	Country string `json:"country" jsonschema:"country name"`
}

// EventsNearbyResult lists upcoming events in a region.
type EventsNearbyResult struct {
	Events []EventSummary `json:"events" jsonschema:"upcoming events in the region, possibly freshly generated"`
}

// GeocodeInput is a free-form address.
type GeocodeInput struct {
	Query string `json:"query" jsonschema:"free-form address or place name"`
}

// GeocodeResult is a WGS84 point.
type GeocodeResult struct {
	Lat float64 `json:"lat" jsonschema:"latitude"`
	Lng float64 `json:"lng" jsonschema:"longitude"`
}

// EventsNearbyTool defines the MCP tool schema for regional discovery.
func EventsNearbyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "events_nearby",
		Description: "Lists upcoming events in a city. When the city has none and AI seeding is configured, a first batch is generated.",
	}
}

// EventsNearbyHandler runs regional discovery through the REST API.
func EventsNearbyHandler(api EventsAPI) mcp.ToolHandlerFor[EventsNearbyInput, EventsNearbyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventsNearbyInput) (*mcp.CallToolResult, EventsNearbyResult, error) {
		region := client.Region{
			City:    strings.TrimSpace(input.City),
			State:   strings.TrimSpace(input.State),
			Country: strings.TrimSpace(input.Country),
		}
		if region.City == "" || region.State == "" || region.Country == "" {
			return nil, EventsNearbyResult{}, toolError("events nearby", apperrors.New(apperrors.CodeSeedRegionIncomplete, "city, state and country are required"))
		}

		// Seeding an empty region can take a few generation rounds.
		runCtx, cancel := context.WithTimeout(ctx, nearbyCallTimeout)
		defer cancel()

		events, err := api.Nearby(runCtx, region)
		if err != nil {
			return nil, EventsNearbyResult{}, toolError("events nearby", err)
		}
		return nil, EventsNearbyResult{Events: summarize(events)}, nil
	}
}

// GeocodeTool defines the MCP tool schema for forward geocoding.
func GeocodeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "geocode",
		Description: "Resolves a free-form address to latitude and longitude.",
	}
}

// GeocodeHandler resolves a query through the REST API.
func GeocodeHandler(api EventsAPI) mcp.ToolHandlerFor[GeocodeInput, GeocodeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GeocodeInput) (*mcp.CallToolResult, GeocodeResult, error) {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return nil, GeocodeResult{}, toolError("geocode", apperrors.New(apperrors.CodeGeocodingQueryEmpty, "query is required"))
		}

		runCtx, cancel := context.WithTimeout(ctx, apiCallTimeout)
		defer cancel()

		point, err := api.GeocodeQuery(runCtx, query)
		if err != nil {
			return nil, GeocodeResult{}, toolError("geocode", err)
		}
		return nil, GeocodeResult{Lat: point.Lat, Lng: point.Lng}, nil
	}
}
