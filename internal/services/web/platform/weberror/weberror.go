// Package weberror turns handler errors into localized pages.
package weberror

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/shared/i18nhttp"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/flash"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/pagerender"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
	"github.com/louisbranch/xplorehub/internal/services/web/templates"
)

// Status maps err to the HTTP status of its domain code.
func Status(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if _, ok := apperrors.As(err); !ok {
		return http.StatusInternalServerError
	}
	return apperrors.CodeOf(err).HTTPStatus()
}

// PublicMessage is a user-safe localized message for err. Internal
// failures never leak their cause.
func PublicMessage(r *http.Request, err error) string {
	if err == nil {
		return ""
	}
	e, ok := apperrors.As(err)
	if !ok || e.Code.HTTPStatus() == http.StatusInternalServerError {
		return templates.T(pagerender.Localizer(r), "web.error.server")
	}
	return e.LocalizedMessage(i18nhttp.Locale(r))
}

// Write renders err. Expired sessions go back to the login page.
func Write(w http.ResponseWriter, r *http.Request, renderer pagerender.Renderer, logger *zap.Logger, err error) {
	status := Status(err)
	loc := pagerender.Localizer(r)

	if status == http.StatusUnauthorized {
		sessioncookie.Clear(w, renderer.Secure(r))
		next := ""
		if r.Method == http.MethodGet {
			next = r.URL.RequestURI()
		}
		renderer.Redirect(w, r, routepath.LoginWithNext(next), &flash.Notice{Kind: flash.KindInfo, Key: "web.auth.session_expired"})
		return
	}

	heading := templates.T(loc, "web.error.heading")
	message := PublicMessage(r, err)
	switch {
	case status == http.StatusNotFound:
		heading = templates.T(loc, "web.error.not_found_heading")
		message = templates.T(loc, "web.error.not_found")
	case status >= http.StatusInternalServerError:
		heading = templates.T(loc, "web.error.server_heading")
		if logger != nil {
			logger.Error("web request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
	}

	page := pagerender.Page{Title: heading, Status: status, Body: templates.ErrorState(heading, message, loc)}
	if renderErr := renderer.Write(w, r, page); renderErr != nil {
		http.Error(w, message, status)
	}
}

// NotFound renders the not-found page.
func NotFound(w http.ResponseWriter, r *http.Request, renderer pagerender.Renderer) {
	Write(w, r, renderer, nil, apperrors.New(apperrors.CodeNotFound, "page not found"))
}
