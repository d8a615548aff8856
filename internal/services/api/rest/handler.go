// Package rest exposes the events API as JSON over HTTP.
package rest

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/i18n/catalog"
	"github.com/louisbranch/xplorehub/internal/platform/requestctx"
	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/geocoding"
	"github.com/louisbranch/xplorehub/internal/services/api/media"
	"github.com/louisbranch/xplorehub/internal/services/api/service"
	"github.com/louisbranch/xplorehub/internal/services/shared/httpx"
	"github.com/louisbranch/xplorehub/internal/services/shared/i18nhttp"
)

// Config wires a Handler.
type Config struct {
	Service  *service.Service
	Geocoder geocoding.Geocoder
	Logger   *zap.Logger
	// MediaDir, when set, is served under media.URLPrefix.
	MediaDir string
}

// Handler routes REST requests to the service.
type Handler struct {
	svc      *service.Service
	geocoder geocoding.Geocoder
	logger   *zap.Logger
	mux      *http.ServeMux
}

// NewHandler builds the API router with its middleware chain.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{svc: cfg.Service, geocoder: cfg.Geocoder, logger: logger, mux: http.NewServeMux()}
	h.routes(cfg.MediaDir)
	return httpx.Chain(h.mux,
		httpx.RequestID(),
		httpx.RecoverPanic(logger),
		httpx.AccessLog(logger),
		httpx.Compress(),
		h.authenticate,
	)
}

func (h *Handler) routes(mediaDir string) {
	m := h.mux
	m.HandleFunc("GET /up", h.handleUp)

	m.HandleFunc("POST /auth/register", h.handleRegister)
	m.HandleFunc("POST /auth/login", h.handleLogin)
	m.HandleFunc("GET /auth/me", h.requireUser(h.handleMe))

	m.HandleFunc("GET /events", h.handleListEvents)
	m.HandleFunc("POST /events", h.requireUser(h.handleCreateEvent))
	m.HandleFunc("GET /events/my-events", h.requireUser(h.handleMyEvents))
	m.HandleFunc("GET /events/{id}", h.handleGetEvent)
	m.HandleFunc("PATCH /events/{id}", h.requireUser(h.handleUpdateEvent))
	m.HandleFunc("DELETE /events/{id}", h.requireUser(h.handleDeleteEvent))
	m.HandleFunc("GET /events/{id}/attendees", h.requireUser(h.handleListAttendees))

	m.HandleFunc("POST /orders", h.requireUser(h.handleCreateOrder))
	m.HandleFunc("GET /orders/my-orders", h.requireUser(h.handleMyOrders))
	m.HandleFunc("GET /orders/event/{eventId}", h.requireUser(h.handleGetOrder))
	m.HandleFunc("PATCH /orders/event/{eventId}/change-status", h.requireUser(h.handleChangeOrderStatus))
	m.HandleFunc("DELETE /orders/{eventId}", h.requireUser(h.handleCancelOrder))

	m.HandleFunc("GET /geocoding/search", h.handleGeocodeSearch)
	m.HandleFunc("POST /geocoding/search", h.handleGeocodeSearch)
	m.HandleFunc("GET /geocoding/search-by-query", h.handleGeocodeQuery)
	m.HandleFunc("GET /geocoding/reverse", h.handleReverse)
	m.HandleFunc("GET /geocoding/nearby", h.handleNearby)

	m.HandleFunc("GET /seed/models", h.requireAdmin(h.handleListModels))
	m.HandleFunc("POST /seed/events", h.requireAdmin(h.handleSeedEvents))

	if strings.TrimSpace(mediaDir) != "" {
		m.Handle("GET "+media.URLPrefix, http.StripPrefix(media.URLPrefix, http.FileServer(http.Dir(mediaDir))))
	}
}

// authenticate resolves an optional bearer token into the request context.
// An invalid token is rejected even on public routes.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := httpx.BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		actor, err := h.svc.Authenticate(token)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		ctx := requestctx.WithUserID(r.Context(), actor.UserID)
		ctx = requestctx.WithRole(ctx, string(actor.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(ctx context.Context) service.Actor {
	return service.Actor{
		UserID: requestctx.UserIDFromContext(ctx),
		Role:   account.Role(requestctx.RoleFromContext(ctx)),
	}
}

func (h *Handler) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if requestctx.UserIDFromContext(r.Context()) == "" {
			h.writeError(w, r, apperrors.New(apperrors.CodeUnauthenticated, "bearer token required"))
			return
		}
		next(w, r)
	}
}

func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return h.requireUser(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r.Context()).IsAdmin() {
			h.writeError(w, r, apperrors.New(apperrors.CodePermissionDenied, "admin role required"))
			return
		}
		next(w, r)
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteError(w, r, h.logger, err)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpx.WriteJSON(w, status, payload); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}

// message returns a localized core message for the request.
func message(r *http.Request, key string) string {
	text, _ := catalog.Default().Message(i18nhttp.Locale(r), key)
	return text
}

func (h *Handler) handleUp(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
