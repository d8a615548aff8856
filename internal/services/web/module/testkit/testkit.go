// Package testkit runs web feature modules against a fake events API.
//
// API stands in for the REST backend: tests register canned JSON or error
// payloads per route, and Serve mounts one module on a bare mux so the
// module's handlers run without the site middleware.
package testkit

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/module"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/flash"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/webctx"
)

// Now is the clock given to modules built by Dependencies.
var Now = time.Date(2026, time.April, 20, 12, 0, 0, 0, time.UTC)

// Viewer is a signed-in organizer used by protected-route tests.
var Viewer = webctx.Viewer{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "USER", Token: "token-u1"}

// API is a fake REST backend.
type API struct {
	t      testing.TB
	mux    *http.ServeMux
	server *httptest.Server

	mu    sync.Mutex
	calls []string
}

// NewAPI starts an empty fake backend. Unregistered routes answer 404
// NOT_FOUND like the real API.
func NewAPI(t testing.TB) *API {
	t.Helper()

	api := &API{t: t, mux: http.NewServeMux()}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.calls = append(api.calls, r.Method+" "+r.URL.Path)
		api.mu.Unlock()
		if _, pattern := api.mux.Handler(r); pattern == "" {
			Error(http.StatusNotFound, apperrors.CodeNotFound, nil)(w, r)
			return
		}
		api.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.server.Close)
	return api
}

// Handle registers h for a method-qualified pattern such as
// "GET /events/{id}".
func (a *API) Handle(pattern string, h http.HandlerFunc) {
	a.mux.HandleFunc(pattern, h)
}

// Calls returns the "METHOD /path" of every request received so far.
func (a *API) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

// Client returns a typed client for the fake backend.
func (a *API) Client() *client.Client {
	a.t.Helper()

	c, err := client.New(a.server.URL, client.WithHTTPClient(a.server.Client()))
	if err != nil {
		a.t.Fatalf("new api client: %v", err)
	}
	return c
}

// Dependencies wires modules to the fake backend with a fixed clock.
func (a *API) Dependencies() module.Dependencies {
	return module.Dependencies{
		API:    a.Client(),
		Logger: zap.NewNop(),
		Now:    func() time.Time { return Now },
	}
}

// JSON answers every request with v.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error answers with the REST error body of code.
func Error(status int, code apperrors.Code, metadata map[string]string) http.HandlerFunc {
	return JSON(status, apperrors.Payload{Code: code, Message: string(code), Metadata: metadata})
}

// NewRequest builds a request for target in en-US. A non-nil form is sent
// urlencoded.
func NewRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept-Language", "en-US")
	return req
}

// SignedIn attaches viewer to req.
func SignedIn(req *http.Request, viewer webctx.Viewer) *http.Request {
	return req.WithContext(webctx.WithViewer(req.Context(), viewer))
}

// Serve mounts m on a fresh mux and records its response to req.
func Serve(t testing.TB, m module.Module, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	for _, route := range m.Routes() {
		mux.HandleFunc(route.Pattern, route.Handler)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// Flash decodes the notice queued by a redirect.
func Flash(t testing.TB, rec *httptest.ResponseRecorder) (flash.Notice, bool) {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != flash.CookieName || cookie.MaxAge < 0 {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil {
			t.Fatalf("decode flash cookie: %v", err)
		}
		var notice flash.Notice
		if err := json.Unmarshal(raw, &notice); err != nil {
			t.Fatalf("unmarshal flash cookie: %v", err)
		}
		return notice, true
	}
	return flash.Notice{}, false
}

// Event is a minimal upcoming event owned by Viewer.
func Event(id string) client.Event {
	return client.Event{
		ID:          id,
		Title:       "Frevo Night",
		Description: "Dance all night.",
		Date:        Now.Add(72 * time.Hour),
		Location:    "Paco do Frevo",
		Price:       "25.00",
		Address:     client.Address{Street: "Praca do Arsenal", City: "Recife", State: "PE", Country: "Brasil"},
		CreatorID:   Viewer.ID,
		Creator:     client.Creator{Name: Viewer.Name, Email: Viewer.Email},
	}
}
