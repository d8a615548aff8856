// Package i18nhttp resolves the request locale shared by the API and web
// surfaces.
package i18nhttp

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/xplorehub/internal/platform/i18n/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "xh_lang"
)

// LanguageOption represents a supported language option in UI surfaces.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// Supported returns the supported locale identifiers.
func Supported() []string {
	return catalog.Default().Locales()
}

// ResolveLocale determines the best locale for the request. The bool
// reports whether the lang query param should be persisted as a cookie.
func ResolveLocale(r *http.Request) (string, bool) {
	if r == nil {
		return catalog.BaseLocale, false
	}
	bundle := catalog.Default()

	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if locale, ok := exactLocale(value); ok {
			return locale, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if locale, ok := exactLocale(cookie.Value); ok {
			return locale, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		return bundle.Match(accept), false
	}
	return catalog.BaseLocale, false
}

// Locale is ResolveLocale without the persistence hint.
func Locale(r *http.Request) string {
	locale, _ := ResolveLocale(r)
	return locale
}

func exactLocale(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, locale := range Supported() {
		if strings.EqualFold(locale, value) {
			return locale, true
		}
	}
	return "", false
}

// SetLanguageCookie persists the selected locale on the response.
func SetLanguageCookie(w http.ResponseWriter, locale string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// BuildLanguageOptions returns supported language options for the switcher
// rendered on r's page.
func BuildLanguageOptions(r *http.Request, activeLocale string) []LanguageOption {
	path, rawQuery := "/", ""
	if r != nil && r.URL != nil {
		path, rawQuery = r.URL.Path, r.URL.RawQuery
	}
	supported := Supported()
	options := make([]LanguageOption, 0, len(supported))
	for _, locale := range supported {
		label, ok := catalog.Default().Message(locale, "core.language_name")
		if !ok {
			label = locale
		}
		options = append(options, LanguageOption{
			Tag:    locale,
			Label:  label,
			URL:    LanguageURL(path, rawQuery, locale),
			Active: locale == activeLocale,
		})
	}
	return options
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}
