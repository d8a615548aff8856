package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
)

type fakeEventsAPI struct {
	listParams client.ListEventsParams
	listPage   client.EventPage
	listErr    error

	getID    string
	getEvent client.Event
	getErr   error

	nearbyRegion client.Region
	nearby       []client.Event
	nearbyErr    error

	geocodeQuery string
	geocodePoint client.Coordinates
	geocodeErr   error
}

func (f *fakeEventsAPI) ListEvents(_ context.Context, params client.ListEventsParams) (client.EventPage, error) {
	f.listParams = params
	return f.listPage, f.listErr
}

func (f *fakeEventsAPI) GetEvent(_ context.Context, id string) (client.Event, error) {
	f.getID = id
	return f.getEvent, f.getErr
}

func (f *fakeEventsAPI) Nearby(_ context.Context, region client.Region) ([]client.Event, error) {
	f.nearbyRegion = region
	return f.nearby, f.nearbyErr
}

func (f *fakeEventsAPI) GeocodeQuery(_ context.Context, query string) (client.Coordinates, error) {
	f.geocodeQuery = query
	return f.geocodePoint, f.geocodeErr
}

func testEvent(id, title string) client.Event {
	lat, lng := -8.0631, -34.8711
	capacity, spots := 50, 48
	return client.Event{
		ID:          id,
		Title:       title,
		Description: "Live **forró** by the river.",
		Date:        time.Date(2026, 11, 2, 20, 0, 0, 0, time.FixedZone("BRT", -3*3600)),
		Location:    "Marco Zero",
		Price:       "20.00",
		Address: client.Address{
			Street:  "Praça Rio Branco",
			City:    "Recife",
			State:   "Pernambuco",
			Country: "Brasil",
			Lat:     &lat,
			Lng:     &lng,
		},
		Creator:         client.Creator{Name: "Ana"},
		MaxAttendees:    &capacity,
		RegisteredCount: 2,
		AvailableSpots:  &spots,
	}
}

func TestEventsListHandler(t *testing.T) {
	t.Run("defaults page size and maps events", func(t *testing.T) {
		api := &fakeEventsAPI{listPage: client.EventPage{
			Events:        []client.Event{testEvent("e1", "Forró night")},
			NextPageToken: "next",
		}}
		_, result, err := EventsListHandler(api)(context.Background(), nil, EventsListInput{City: "  Recife ", Upcoming: true})
		require.NoError(t, err)

		assert.Equal(t, client.ListEventsParams{City: "Recife", Upcoming: true, PageSize: defaultListPageSize}, api.listParams)
		require.Len(t, result.Events, 1)
		assert.Equal(t, "next", result.NextPageToken)

		got := result.Events[0]
		assert.Equal(t, "e1", got.ID)
		assert.Equal(t, "2026-11-02T23:00:00Z", got.Date)
		assert.Equal(t, "Recife", got.City)
		assert.Equal(t, "Ana", got.Organizer)
		require.NotNil(t, got.AvailableSpots)
		assert.Equal(t, 48, *got.AvailableSpots)
	})

	t.Run("caps page size", func(t *testing.T) {
		api := &fakeEventsAPI{}
		_, result, err := EventsListHandler(api)(context.Background(), nil, EventsListInput{PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, maxListPageSize, api.listParams.PageSize)
		assert.NotNil(t, result.Events)
		assert.Empty(t, result.Events)
	})

	t.Run("api error keeps code and message", func(t *testing.T) {
		api := &fakeEventsAPI{listErr: apperrors.New(apperrors.CodeInvalidArgument, "Invalid page token.")}
		_, _, err := EventsListHandler(api)(context.Background(), nil, EventsListInput{PageToken: "bogus"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INVALID_ARGUMENT")
		assert.Contains(t, err.Error(), "Invalid page token.")
	})
}

func TestEventGetHandler(t *testing.T) {
	t.Run("returns description", func(t *testing.T) {
		api := &fakeEventsAPI{getEvent: testEvent("e1", "Forró night")}
		_, result, err := EventGetHandler(api)(context.Background(), nil, EventGetInput{ID: " e1 "})
		require.NoError(t, err)
		assert.Equal(t, "e1", api.getID)
		assert.Equal(t, "Forró night", result.Event.Title)
		assert.Contains(t, result.Event.Description, "forró")
	})

	t.Run("requires id", func(t *testing.T) {
		api := &fakeEventsAPI{}
		_, _, err := EventGetHandler(api)(context.Background(), nil, EventGetInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), string(apperrors.CodeInvalidArgument))
		assert.Empty(t, api.getID)
	})

	t.Run("not found", func(t *testing.T) {
		api := &fakeEventsAPI{getErr: apperrors.New(apperrors.CodeNotFound, "")}
		_, _, err := EventGetHandler(api)(context.Background(), nil, EventGetInput{ID: "missing"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NOT_FOUND")
	})
}

func TestEventsNearbyHandler(t *testing.T) {
	t.Run("passes trimmed region", func(t *testing.T) {
		api := &fakeEventsAPI{nearby: []client.Event{testEvent("e1", "Forró night"), testEvent("e2", "Frevo class")}}
		_, result, err := EventsNearbyHandler(api)(context.Background(), nil, EventsNearbyInput{City: "Recife ", State: "Pernambuco", Country: "Brasil"})
		require.NoError(t, err)
		assert.Equal(t, client.Region{City: "Recife", State: "Pernambuco", Country: "Brasil"}, api.nearbyRegion)
		assert.Len(t, result.Events, 2)
	})

	t.Run("rejects incomplete region", func(t *testing.T) {
		api := &fakeEventsAPI{}
		_, _, err := EventsNearbyHandler(api)(context.Background(), nil, EventsNearbyInput{City: "Recife"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), string(apperrors.CodeSeedRegionIncomplete))
		assert.Empty(t, api.nearbyRegion.City)
	})
}

func TestGeocodeHandler(t *testing.T) {
	t.Run("resolves query", func(t *testing.T) {
		api := &fakeEventsAPI{geocodePoint: client.Coordinates{Lat: -8.05, Lng: -34.88}}
		_, result, err := GeocodeHandler(api)(context.Background(), nil, GeocodeInput{Query: "Marco Zero, Recife"})
		require.NoError(t, err)
		assert.Equal(t, "Marco Zero, Recife", api.geocodeQuery)
		assert.Equal(t, GeocodeResult{Lat: -8.05, Lng: -34.88}, result)
	})

	t.Run("rejects blank query", func(t *testing.T) {
		_, _, err := GeocodeHandler(&fakeEventsAPI{})(context.Background(), nil, GeocodeInput{Query: "  "})
		require.Error(t, err)
		assert.Contains(t, err.Error(), string(apperrors.CodeGeocodingQueryEmpty))
	})

	t.Run("transport error is wrapped", func(t *testing.T) {
		cause := errors.New("connection refused")
		_, _, err := GeocodeHandler(&fakeEventsAPI{geocodeErr: cause})(context.Background(), nil, GeocodeInput{Query: "Recife"})
		require.ErrorIs(t, err, cause)
	})
}

func TestUpcomingEventsResourceHandler(t *testing.T) {
	api := &fakeEventsAPI{listPage: client.EventPage{Events: []client.Event{testEvent("e1", "Forró night")}}}
	result, err := UpcomingEventsResourceHandler(api)(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: UpcomingEventsURI},
	})
	require.NoError(t, err)
	assert.True(t, api.listParams.Upcoming)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var payload UpcomingEventsPayload
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &payload))
	require.Len(t, payload.Events, 1)
	assert.True(t, strings.HasPrefix(payload.Events[0].Date, "2026-11-02"))
}
