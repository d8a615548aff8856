package domain

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/timeouts"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
)

// apiCallTimeout caps one REST call made on behalf of a tool.
const apiCallTimeout = timeouts.APIRequest

// nearbyCallTimeout leaves room for the API to seed an empty region.
const nearbyCallTimeout = timeouts.APIRequest + timeouts.Generation

// EventsAPI is the slice of the REST client the MCP tools call.
type EventsAPI interface {
	ListEvents(ctx context.Context, params client.ListEventsParams) (client.EventPage, error)
	GetEvent(ctx context.Context, id string) (client.Event, error)
	Nearby(ctx context.Context, region client.Region) ([]client.Event, error)
	GeocodeQuery(ctx context.Context, query string) (client.Coordinates, error)
}

// toolError keeps the domain code visible to the caller alongside the
// message the API localized.
func toolError(action string, err error) error {
	if e, ok := apperrors.As(err); ok {
		message := e.Message
		if message == "" {
			message = e.LocalizedMessage("")
		}
		return fmt.Errorf("%s failed: %s: %s", action, e.Code, message)
	}
	return fmt.Errorf("%s failed: %w", action, err)
}
