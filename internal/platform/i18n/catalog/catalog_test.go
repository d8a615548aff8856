package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}
	if !bundle.HasLocale("pt-BR") {
		t.Fatalf("expected locale pt-BR")
	}
	for _, namespace := range []string{"core", "errors", "web"} {
		if got := len(bundle.NamespaceMessages("en-US", namespace)); got == 0 {
			t.Fatalf("expected en-US %s namespace messages", namespace)
		}
	}
}

func TestEmbeddedLocalesShareKeys(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	base := bundle.LocaleMessages(BaseLocale)
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Fatalf("locale %s missing key %q", locale, key)
			}
		}
		for key := range messages {
			if _, ok := base[key]; !ok {
				t.Fatalf("locale %s has key %q not present in %s", locale, key, BaseLocale)
			}
		}
	}
}

func TestLoadFromFSRejectsCoreKeyOutsideCoreNamespace(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/web.yaml"), `locale: en-US
namespace: web
messages:
  core.bad: nope
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: en-US
namespace: core
messages:
  core.good: ok
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsDuplicateKeysAcrossNamespaces(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: en-US
namespace: core
messages:
  a.key: a
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/web.yaml"), `locale: en-US
namespace: web
messages:
  a.key: b
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestLoadFromFSRejectsUnknownFields(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: en-US
namespace: core
extra: true
messages:
  core.name: XploreHub
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/pt-BR/core.yaml"), `locale: pt-BR
namespace: core
messages:
  core.name: XploreHub
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestNamespaceMessagesWithFallback(t *testing.T) {
	bundle := Default()
	resolved, messages := bundle.NamespaceMessagesWithFallback("fr-FR", "errors")
	if resolved != BaseLocale {
		t.Fatalf("resolved locale = %q, want %s", resolved, BaseLocale)
	}
	if len(messages) == 0 {
		t.Fatal("expected fallback errors namespace messages")
	}
}

func TestMatch(t *testing.T) {
	bundle := Default()
	tests := []struct {
		input string
		want  string
	}{
		{"", BaseLocale},
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"pt-BR,pt;q=0.9,en;q=0.8", "pt-BR"},
		{"en-GB", BaseLocale},
		{"ja-JP", BaseLocale},
		{"not a tag", BaseLocale},
	}
	for _, tc := range tests {
		if got := bundle.Match(tc.input); got != tc.want {
			t.Fatalf("Match(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPrinterUsesRegisteredMessages(t *testing.T) {
	bundle := Default()
	if got := bundle.Printer("pt-BR").Sprintf("web.nav.events"); got != "Eventos" {
		t.Fatalf("pt-BR nav = %q", got)
	}
	if got := bundle.Printer("en-US").Sprintf("web.nav.events"); got != "Events" {
		t.Fatalf("en-US nav = %q", got)
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle := Default()
	value, ok := bundle.Message("fr-FR", "core.app_name")
	if !ok || value != "XploreHub" {
		t.Fatalf("Message = %q, %v", value, ok)
	}
	if _, ok := bundle.Message("en-US", "missing.key"); ok {
		t.Fatal("expected missing key")
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}
