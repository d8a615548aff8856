package rest

import (
	"net/http"
	"strconv"

	"github.com/louisbranch/xplorehub/internal/services/api/aiseed"
	"github.com/louisbranch/xplorehub/internal/services/api/geocoding"
	"github.com/louisbranch/xplorehub/internal/services/shared/httpx"
)

type addressQueryJSON struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

func (h *Handler) handleGeocodeSearch(w http.ResponseWriter, r *http.Request) {
	var req addressQueryJSON
	if r.Method == http.MethodPost {
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
	} else {
		q := r.URL.Query()
		req = addressQueryJSON{Street: q.Get("street"), City: q.Get("city"), State: q.Get("state"), Country: q.Get("country")}
	}
	coords, err := h.geocoder.Coordinates(r.Context(), geocoding.AddressQuery{
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		Country: req.Country,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, coords)
}

func (h *Handler) handleGeocodeQuery(w http.ResponseWriter, r *http.Request) {
	coords, err := h.geocoder.CoordinatesByQuery(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, coords)
}

func (h *Handler) handleReverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		h.writeError(w, r, geocoding.ErrCoordinateInvalid)
		return
	}
	place, err := h.geocoder.Reverse(r.Context(), lat, lng)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, place)
}

func (h *Handler) handleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := h.svc.Nearby(r.Context(), aiseed.Region{City: q.Get("city"), State: q.Get("state"), Country: q.Get("country")})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEventsJSON(events))
}

func (h *Handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.ListModels(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models)
}

func (h *Handler) handleSeedEvents(w http.ResponseWriter, r *http.Request) {
	var region aiseed.Region
	if err := httpx.DecodeJSON(w, r, &region); err != nil {
		h.writeError(w, r, err)
		return
	}
	events, err := h.svc.SeedRegion(r.Context(), region)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toEventsJSON(events))
}
