package pagerender

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/services/web/platform/flash"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/webctx"
)

func TestWriteRendersLayoutWithStatus(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/events?lang=pt-BR", nil)
	req = req.WithContext(webctx.WithViewer(req.Context(), webctx.Viewer{ID: "u-1", Name: "Ana"}))
	rr := httptest.NewRecorder()

	err := Renderer{}.Write(rr, req, Page{Title: "Eventos", Status: http.StatusCreated, Body: templ.Raw(`<p id="body-marker">ok</p>`)})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	body := rr.Body.String()
	for _, want := range []string{`<html lang="pt-BR">`, `id="body-marker"`, "Ana", "Sair"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestRedirectCarriesFlashToNextPage(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	Renderer{}.Redirect(rr, httptest.NewRequest(http.MethodPost, "/create-event", nil), "/my-events", &flash.Notice{Kind: flash.KindSuccess, Key: "web.flash.event_created"})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if got := rr.Header().Get("Location"); got != "/my-events" {
		t.Fatalf("Location = %q, want /my-events", got)
	}

	next := httptest.NewRequest(http.MethodGet, "/my-events", nil)
	for _, cookie := range rr.Result().Cookies() {
		next.AddCookie(cookie)
	}
	page := httptest.NewRecorder()
	if err := (Renderer{}).Write(page, next, Page{Body: templ.Raw("")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(page.Body.String(), "Event published.") {
		t.Fatalf("expected flash notice in body")
	}
}
