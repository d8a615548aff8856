// Package sessioncookie stores the API access token in an HTTP-only cookie.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"
)

// Name is the session cookie name.
const Name = "xh_session"

// Read returns the access token carried by r.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(cookie.Value)
	return token, token != ""
}

// Write stores token for ttl. A non-positive ttl yields a cookie that
// lasts for the browser session.
func Write(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	maxAge := 0
	if ttl > 0 {
		maxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(token),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
