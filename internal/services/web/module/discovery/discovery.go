// Package discovery serves the map page and its nearby-events feed.
package discovery

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/shared/httpx"
	"github.com/louisbranch/xplorehub/internal/services/web/module"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/pagerender"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
	"github.com/louisbranch/xplorehub/internal/services/web/templates"
)

// Module is the discovery surface.
type Module struct {
	deps module.Dependencies
}

// New builds the discovery module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID implements module.Module.
func (Module) ID() string { return "discovery" }

// Routes implements module.Module.
func (m Module) Routes() []module.Route {
	return []module.Route{
		{Pattern: "GET " + routepath.Discovery, Handler: m.page},
		{Pattern: "GET " + routepath.DiscoveryNearby, Handler: m.nearby},
	}
}

func (m Module) page(w http.ResponseWriter, r *http.Request) {
	loc := pagerender.Localizer(r)
	m.deps.Render(w, r, pagerender.Page{
		Title: templates.T(loc, "web.discovery.heading"),
		Head:  templates.DiscoveryHead(),
		Body:  templates.Discovery(loc),
	})
}

type nearbyEvent struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	DateLabel string         `json:"dateLabel"`
	Price     string         `json:"price"`
	Address   client.Address `json:"address"`
}

type nearbyResponse struct {
	Place  string        `json:"place"`
	Events []nearbyEvent `json:"events"`
}

// nearby resolves the browser position to a city and returns its events,
// which the API seeds on first visit.
func (m Module) nearby(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		httpx.WriteError(w, r, m.deps.Logger, apperrors.New(apperrors.CodeGeocodingCoordinateInvalid, "lat and lng must be numbers"))
		return
	}

	api := m.deps.Scoped(r)
	place, err := api.Reverse(r.Context(), lat, lng)
	if err != nil {
		httpx.WriteError(w, r, m.deps.Logger, err)
		return
	}
	events, err := api.Nearby(r.Context(), client.Region{City: place.City, State: place.State, Country: place.Country})
	if err != nil {
		httpx.WriteError(w, r, m.deps.Logger, err)
		return
	}

	loc := pagerender.Localizer(r)
	out := nearbyResponse{Place: placeLabel(place), Events: make([]nearbyEvent, 0, len(events))}
	for _, ev := range events {
		out.Events = append(out.Events, nearbyEvent{
			ID:        ev.ID,
			Title:     ev.Title,
			DateLabel: templates.FormatDate(loc, ev.Date),
			Price:     templates.PriceLabel(loc, ev),
			Address:   ev.Address,
		})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, out)
}

func placeLabel(place client.Place) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{place.City, place.State, place.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
