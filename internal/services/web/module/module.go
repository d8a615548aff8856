// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/pagerender"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/webctx"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/weberror"
)

// Route binds a method-qualified ServeMux pattern to its handler.
type Route struct {
	Pattern string
	Handler http.HandlerFunc
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Routes() []Route
}

// Dependencies are the collaborators shared by every feature module.
type Dependencies struct {
	API      *client.Client
	Renderer pagerender.Renderer
	Logger   *zap.Logger
	Now      func() time.Time
}

// Scoped returns the API client bound to the request locale and session.
func (d Dependencies) Scoped(r *http.Request) *client.Client {
	return webctx.Client(r, d.API)
}

// Clock returns the current time in UTC.
func (d Dependencies) Clock() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// Render writes page, falling back to the error page on render failures.
func (d Dependencies) Render(w http.ResponseWriter, r *http.Request, page pagerender.Page) {
	if err := d.Renderer.Write(w, r, page); err != nil {
		d.Fail(w, r, err)
	}
}

// Fail renders err as a localized error page.
func (d Dependencies) Fail(w http.ResponseWriter, r *http.Request, err error) {
	weberror.Write(w, r, d.Renderer, d.Logger, err)
}
