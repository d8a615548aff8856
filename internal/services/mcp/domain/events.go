package domain

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
)

const (
	defaultListPageSize = 20
	maxListPageSize     = 100
)

// EventSummary is the event shape returned by every event tool.
type EventSummary struct {
	ID              string   `json:"id" jsonschema:"event identifier"`
	Title           string   `json:"title" jsonschema:"event title"`
	Date            string   `json:"date" jsonschema:"RFC3339 start time in UTC"`
	Location        string   `json:"location" jsonschema:"venue name"`
	Street          string   `json:"street,omitempty" jsonschema:"street of the venue"`
	City            string   `json:"city" jsonschema:"city of the venue"`
	State           string   `json:"state" jsonschema:"state of the venue"`
	Country         string   `json:"country" jsonschema:"country of the venue"`
	Lat             *float64 `json:"lat,omitempty" jsonschema:"venue latitude when geocoded"`
	Lng             *float64 `json:"lng,omitempty" jsonschema:"venue longitude when geocoded"`
	Price           string   `json:"price" jsonschema:"ticket price as a decimal string, 0.00 when free"`
	MaxAttendees    *int     `json:"max_attendees,omitempty" jsonschema:"capacity, absent when unlimited"`
	RegisteredCount int      `json:"registered_count" jsonschema:"attendees on active orders"`
	AvailableSpots  *int     `json:"available_spots,omitempty" jsonschema:"remaining capacity, absent when unlimited"`
	ImageURL        string   `json:"image_url,omitempty" jsonschema:"cover image URL"`
	Organizer       string   `json:"organizer,omitempty" jsonschema:"name of the organizer"`
}

// EventDetail adds the long description to an EventSummary.
type EventDetail struct {
	EventSummary
	Description string `json:"description" jsonschema:"markdown description"`
}

// EventsListInput filters the public listing.
type EventsListInput struct {
	City      string `json:"city,omitempty" jsonschema:"case-insensitive city filter"`
	Upcoming  bool   `json:"upcoming,omitempty" jsonschema:"only events that have not started"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"events per page, 20 by default and at most 100"`
	PageToken string `json:"page_token,omitempty" jsonschema:"next_page_token from a previous call"`
}

// EventsListResult is one page of events.
type EventsListResult struct {
	Events        []EventSummary `json:"events" jsonschema:"events ordered by date"`
	NextPageToken string         `json:"next_page_token,omitempty" jsonschema:"token for the next page, empty on the last page"`
}

// EventGetInput identifies one event.
type EventGetInput struct {
	ID string `json:"id" jsonschema:"event identifier"`
}

// EventGetResult wraps a single event.
type EventGetResult struct {
	Event EventDetail `json:"event" jsonschema:"the event"`
}

// EventsListTool defines the MCP tool schema for listing events.
func EventsListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "events_list",
		Description: "Lists public events ordered by date, optionally filtered by city and to upcoming events only. Paginate with page_token.",
	}
}

// EventsListHandler lists events through the REST API.
func EventsListHandler(api EventsAPI) mcp.ToolHandlerFor[EventsListInput, EventsListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventsListInput) (*mcp.CallToolResult, EventsListResult, error) {
		pageSize := input.PageSize
		switch {
		case pageSize <= 0:
			pageSize = defaultListPageSize
		case pageSize > maxListPageSize:
			pageSize = maxListPageSize
		}

		runCtx, cancel := context.WithTimeout(ctx, apiCallTimeout)
		defer cancel()

		page, err := api.ListEvents(runCtx, client.ListEventsParams{
			City:      strings.TrimSpace(input.City),
			Upcoming:  input.Upcoming,
			PageSize:  pageSize,
			PageToken: strings.TrimSpace(input.PageToken),
		})
		if err != nil {
			return nil, EventsListResult{}, toolError("events list", err)
		}
		return nil, EventsListResult{
			Events:        summarize(page.Events),
			NextPageToken: page.NextPageToken,
		}, nil
	}
}

// EventGetTool defines the MCP tool schema for reading one event.
func EventGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_get",
		Description: "Returns one event with its description, venue and remaining capacity.",
	}
}

// EventGetHandler reads one event through the REST API.
func EventGetHandler(api EventsAPI) mcp.ToolHandlerFor[EventGetInput, EventGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventGetInput) (*mcp.CallToolResult, EventGetResult, error) {
		id := strings.TrimSpace(input.ID)
		if id == "" {
			return nil, EventGetResult{}, toolError("event get", apperrors.New(apperrors.CodeInvalidArgument, "event id is required"))
		}

		runCtx, cancel := context.WithTimeout(ctx, apiCallTimeout)
		defer cancel()

		event, err := api.GetEvent(runCtx, id)
		if err != nil {
			return nil, EventGetResult{}, toolError("event get", err)
		}
		return nil, EventGetResult{Event: EventDetail{
			EventSummary: summary(event),
			Description:  event.Description,
		}}, nil
	}
}

func summarize(events []client.Event) []EventSummary {
	out := make([]EventSummary, 0, len(events))
	for _, event := range events {
		out = append(out, summary(event))
	}
	return out
}

func summary(event client.Event) EventSummary {
	return EventSummary{
		ID:              event.ID,
		Title:           event.Title,
		Date:            formatTime(event.Date),
		Location:        event.Location,
		Street:          event.Address.Street,
		City:            event.Address.City,
		State:           event.Address.State,
		Country:         event.Address.Country,
		Lat:             event.Address.Lat,
		Lng:             event.Address.Lng,
		Price:           event.Price,
		MaxAttendees:    event.MaxAttendees,
		RegisteredCount: event.RegisteredCount,
		AvailableSpots:  event.AvailableSpots,
		ImageURL:        event.ImageURL,
		Organizer:       event.Creator.Name,
	}
}

// formatTime returns an RFC3339 UTC timestamp or empty string.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
