package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWriteThenRead(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Write(rec, " token-1 ", time.Hour, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie flags = %+v, want http-only secure lax", c)
	}
	if c.MaxAge <= 0 || c.MaxAge > 3600 {
		t.Fatalf("max age = %d, want (0, 3600]", c.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	token, ok := Read(req)
	if !ok || token != "token-1" {
		t.Fatalf("Read() = %q, %v, want token-1, true", token, ok)
	}
}

func TestWriteWithoutTTLIsSessionCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Write(rec, "token-1", 0, false)
	header := rec.Header().Get("Set-Cookie")
	if strings.Contains(header, "Max-Age") || strings.Contains(header, "Expires") {
		t.Fatalf("Set-Cookie = %q, want session cookie", header)
	}
}

func TestReadMissingOrBlank(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := Read(req); ok {
		t.Fatal("expected no token without cookie")
	}
	req.AddCookie(&http.Cookie{Name: Name, Value: "  "})
	if _, ok := Read(req); ok {
		t.Fatal("expected no token for blank cookie")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Clear(rec, false)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookies = %+v, want one expired cookie", cookies)
	}
}
