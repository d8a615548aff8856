package httpx

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
)

func TestChainAppliesInDeclarationOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("a"), nil, mark("b"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestRequireMethod(t *testing.T) {
	t.Parallel()

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), RequireMethod(http.MethodPost))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow = %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}), RequestID())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "abc", seen)
	require.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestRecoverPanicLogsAndReturns500(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), RecoverPanic(zap.New(core)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Fatalf("expected one panic log, got %v", logs.All())
	}
}

func TestAccessLogRecordsStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short and stout")
	}), AccessLog(zap.New(core)))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pot", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.EqualValues(t, http.StatusTeapot, fields["status"])
	require.Equal(t, "/pot", fields["path"])
	require.EqualValues(t, len("short and stout"), fields["bytes"])
}

func TestCompressGzipsLargeBodies(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("xplorehub ", 500)
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, body)
	}), Compress())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	reader, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	decoded, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, body, string(decoded))
}

func TestStripTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		wantCode int
		wantLoc  string
	}{
		{path: "/events", wantCode: http.StatusOK},
		{path: "/events/", wantCode: http.StatusMovedPermanently, wantLoc: "/events"},
		{path: "/events/abc//?city=Recife", wantCode: http.StatusMovedPermanently, wantLoc: "/events/abc?city=Recife"},
		{path: "/", wantCode: http.StatusOK},
	}
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), StripTrailingSlash())
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.wantCode {
			t.Fatalf("%s: status = %d, want %d", tc.path, rec.Code, tc.wantCode)
		}
		if got := rec.Header().Get("Location"); got != tc.wantLoc {
			t.Fatalf("%s: location = %q, want %q", tc.path, got, tc.wantLoc)
		}
	}
}

func TestWriteErrorUsesDomainPayload(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Accept-Language", "pt-BR")
	rec := httptest.NewRecorder()
	WriteError(rec, req, zap.NewNop(), apperrors.New(apperrors.CodeOrderAlreadyRegistered, "duplicate order"))

	require.Equal(t, http.StatusConflict, rec.Code)
	var payload apperrors.Payload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Equal(t, apperrors.CodeOrderAlreadyRegistered, payload.Code)
	require.Equal(t, "Você já está inscrito neste evento.", payload.Message)
}

func TestWriteErrorLogsInternalFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/events", nil), zap.New(core), errors.New("disk on fire"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "disk on fire")
	require.Equal(t, 1, logs.Len())
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var dst struct {
		City string `json:"city"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"city":"Recife","extra":1}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &dst))
	require.Equal(t, "Recife", dst.City)

	for _, body := range []string{"", "{", `{"city":`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err)
		require.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":               "",
		"Bearer abc":     "abc",
		"bearer  abc ":   "abc",
		"Basic dXNlcjpw": "",
		"Bearer":         "",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if got := BearerToken(req); got != want {
			t.Fatalf("BearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
