package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetThenPop(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Set(rec, Success("web.flash.event_created"), false)

	req := httptest.NewRequest(http.MethodGet, "/my-events", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	popRec := httptest.NewRecorder()
	notice, ok := Pop(popRec, req, false)
	if !ok {
		t.Fatal("expected notice")
	}
	if notice != Success("web.flash.event_created") {
		t.Fatalf("notice = %+v, want success web.flash.event_created", notice)
	}
	cleared := popRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("cookies = %+v, want one expired cookie", cleared)
	}
}

func TestPopClearsGarbage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%"})
	rec := httptest.NewRecorder()
	if _, ok := Pop(rec, req, false); ok {
		t.Fatal("expected no notice for garbage cookie")
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("expected garbage cookie to be cleared")
	}
}

func TestSetIgnoresInvalidNotice(t *testing.T) {
	t.Parallel()

	for _, notice := range []Notice{{Kind: KindSuccess}, {Kind: "loud", Key: "x"}} {
		rec := httptest.NewRecorder()
		Set(rec, notice, false)
		if got := len(rec.Result().Cookies()); got != 0 {
			t.Fatalf("cookies for %+v = %d, want 0", notice, got)
		}
	}
}
