package templates

import (
	"fmt"
	"time"

	"golang.org/x/text/message"
)

// Localizer provides translated strings for web components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// FormatDate renders t in UTC with the locale's date layout.
func FormatDate(loc Localizer, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout := T(loc, "web.date_layout")
	if layout == "web.date_layout" || layout == "" {
		layout = time.RFC1123
	}
	return t.UTC().Format(layout)
}
