package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
)

// UpcomingEventsURI addresses the upcoming events resource.
const UpcomingEventsURI = "events://upcoming"

// UpcomingEventsPayload is the JSON body of the upcoming events resource.
type UpcomingEventsPayload struct {
	Events []EventSummary `json:"events"`
}

// UpcomingEventsResource describes the first page of upcoming events.
func UpcomingEventsResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "upcoming_events",
		Title:       "Upcoming events",
		Description: "The next public events across every city.",
		MIMEType:    "application/json",
		URI:         UpcomingEventsURI,
	}
}

// UpcomingEventsResourceHandler reads the first listing page.
func UpcomingEventsResourceHandler(api EventsAPI) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := UpcomingEventsURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		runCtx, cancel := context.WithTimeout(ctx, apiCallTimeout)
		defer cancel()

		page, err := api.ListEvents(runCtx, client.ListEventsParams{Upcoming: true, PageSize: defaultListPageSize})
		if err != nil {
			return nil, toolError("upcoming events", err)
		}
		data, err := json.MarshalIndent(UpcomingEventsPayload{Events: summarize(page.Events)}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal upcoming events: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}
