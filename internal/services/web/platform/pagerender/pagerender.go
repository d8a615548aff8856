// Package pagerender wraps page bodies in the site layout.
package pagerender

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/platform/i18n/catalog"
	"github.com/louisbranch/xplorehub/internal/services/shared/i18nhttp"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/flash"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/webctx"
	"github.com/louisbranch/xplorehub/internal/services/web/templates"
)

// Page describes one full-page response.
type Page struct {
	Title  string
	Status int
	Head   templ.Component
	Body   templ.Component
}

// Renderer writes pages and redirects with the request's locale, viewer
// and pending flash notice.
type Renderer struct {
	Policy requestmeta.Policy
}

// Localizer returns the printer for the request locale.
func Localizer(r *http.Request) templates.Localizer {
	return catalog.Default().Printer(i18nhttp.Locale(r))
}

// Secure reports whether cookies set on this request need the Secure flag.
func (rd Renderer) Secure(r *http.Request) bool {
	return requestmeta.IsHTTPS(r, rd.Policy)
}

// Write renders page. Output is buffered so a failing component never
// leaves a half-written document behind.
func (rd Renderer) Write(w http.ResponseWriter, r *http.Request, page Page) error {
	locale := i18nhttp.Locale(r)
	loc := catalog.Default().Printer(locale)
	layout := templates.Page{
		Title:     page.Title,
		Lang:      locale,
		Loc:       loc,
		Languages: i18nhttp.BuildLanguageOptions(r, locale),
		Head:      page.Head,
	}
	if viewer, ok := webctx.ViewerFrom(r.Context()); ok {
		layout.Viewer = &templates.Viewer{Name: viewer.Name, Email: viewer.Email}
	}

	if notice, ok := flash.Pop(w, r, rd.Secure(r)); ok {
		layout.Notice = &templates.Notice{Kind: string(notice.Kind), Message: noticeText(loc, notice)}
	}

	var buf bytes.Buffer
	if err := templates.Layout(layout, page.Body).Render(r.Context(), &buf); err != nil {
		return err
	}

	status := page.Status
	if status <= 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// Redirect sends a 303 to target, queueing notice for the next page.
func (rd Renderer) Redirect(w http.ResponseWriter, r *http.Request, target string, notice *flash.Notice) {
	if notice != nil {
		flash.Set(w, *notice, rd.Secure(r))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func noticeText(loc templates.Localizer, notice flash.Notice) string {
	if notice.Text != "" {
		return notice.Text
	}
	return templates.T(loc, notice.Key)
}
