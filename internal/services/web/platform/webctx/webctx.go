// Package webctx carries the signed-in viewer through request contexts.
package webctx

import (
	"context"
	"net/http"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/shared/i18nhttp"
)

// Viewer is the account behind the session cookie.
type Viewer struct {
	ID    string
	Name  string
	Email string
	Role  string
	Token string
}

// IsAdmin reports whether the viewer holds the ADMIN role.
func (v Viewer) IsAdmin() bool {
	return v.Role == "ADMIN"
}

// CanManage reports whether the viewer may edit an event created by creatorID.
func (v Viewer) CanManage(creatorID string) bool {
	return v.ID != "" && (v.ID == creatorID || v.IsAdmin())
}

type viewerKey struct{}

// WithViewer stores viewer on ctx.
func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer)
}

// ViewerFrom returns the viewer stored on ctx.
func ViewerFrom(ctx context.Context) (Viewer, bool) {
	if ctx == nil {
		return Viewer{}, false
	}
	viewer, ok := ctx.Value(viewerKey{}).(Viewer)
	return viewer, ok && viewer.ID != ""
}

// Client scopes api to the request locale and the viewer token.
func Client(r *http.Request, api *client.Client) *client.Client {
	scoped := api.WithLocale(i18nhttp.Locale(r))
	if viewer, ok := ViewerFrom(r.Context()); ok {
		scoped = scoped.WithToken(viewer.Token)
	}
	return scoped
}
