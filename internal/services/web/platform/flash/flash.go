// Package flash carries one-time notices across a redirect.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

// CookieName is the flash cookie name.
const CookieName = "xh_flash"

// Kind selects how a notice is styled.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice is a localization key, or literal text when Text is set.
type Notice struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key,omitempty"`
	Text string `json:"text,omitempty"`
}

// Success builds a success notice for key.
func Success(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// Error builds an error notice with already localized text.
func Error(text string) Notice {
	return Notice{Kind: KindError, Text: text}
}

// Set stores notice for the next page render.
func Set(w http.ResponseWriter, notice Notice, secure bool) {
	notice, ok := normalize(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop reads and clears the pending notice. An unreadable cookie is still
// cleared.
func Pop(w http.ResponseWriter, r *http.Request, secure bool) (Notice, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(cookie.Value))
	if err != nil {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(raw, &notice); err != nil {
		return Notice{}, false
	}
	return normalize(notice)
}

func normalize(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	notice.Text = strings.TrimSpace(notice.Text)
	if notice.Key == "" && notice.Text == "" {
		return Notice{}, false
	}
	switch notice.Kind {
	case KindSuccess, KindInfo, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
