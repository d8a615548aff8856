// Package requestmeta answers scheme and origin questions about requests.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// Policy controls which proxy headers are trusted.
//
// X-Forwarded-Proto is only honored when TrustForwardedProto is set.
type Policy struct {
	TrustForwardedProto bool
}

// Scheme returns "https" or "http" for r.
func Scheme(r *http.Request, policy Policy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		switch forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded {
		case "http", "https":
			return forwarded
		}
	}
	if r.TLS != nil {
		return "https"
	}
	if r.URL != nil && strings.EqualFold(r.URL.Scheme, "https") {
		return "https"
	}
	return "http"
}

// IsHTTPS reports whether cookies for r should be marked Secure.
func IsHTTPS(r *http.Request, policy Policy) bool {
	return Scheme(r, policy) == "https"
}

// SameOrigin reports whether the Origin header, or the Referer when Origin
// is absent, names the host that received r. Requests carrying neither are
// not same-origin.
func SameOrigin(r *http.Request, policy Policy) bool {
	if r == nil {
		return false
	}
	source := strings.TrimSpace(r.Header.Get("Origin"))
	if source == "" {
		source = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if source == "" {
		return false
	}
	parsed, err := url.Parse(source)
	if err != nil || parsed.Host == "" {
		return false
	}
	scheme := Scheme(r, policy)
	if !strings.EqualFold(parsed.Scheme, scheme) {
		return false
	}
	return hostPort(parsed.Host, scheme) == hostPort(r.Host, scheme)
}

func hostPort(raw, scheme string) string {
	parsed, err := url.Parse("//" + strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return ""
	}
	port := parsed.Port()
	if port == "" {
		port = "80"
		if scheme == "https" {
			port = "443"
		}
	}
	return host + ":" + port
}
