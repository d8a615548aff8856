package templates

import (
	"testing"
	"time"
)

func TestT_NilLocalizer(t *testing.T) {
	got := T(nil, "some.key")
	if got != "some.key" {
		t.Fatalf("T(nil, ...) = %q, want %q", got, "some.key")
	}
}

func TestT_NilLocalizerNonStringKey(t *testing.T) {
	got := T(nil, 42)
	if got != "" {
		t.Fatalf("T(nil, 42) = %q, want empty", got)
	}
}

func TestFormatDateUsesLocaleLayout(t *testing.T) {
	when := time.Date(2026, time.April, 23, 19, 30, 0, 0, time.UTC)
	if got, want := FormatDate(testLocalizer("pt-BR"), when), "23/04/2026 19:30"; got != want {
		t.Fatalf("FormatDate(pt-BR) = %q, want %q", got, want)
	}
	if got := FormatDate(nil, when); got != when.Format(time.RFC1123) {
		t.Fatalf("FormatDate(nil) = %q, want RFC1123", got)
	}
	if got := FormatDate(nil, time.Time{}); got != "" {
		t.Fatalf("FormatDate(zero) = %q, want empty", got)
	}
}
