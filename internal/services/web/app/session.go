package app

import (
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/shared/httpx"
	"github.com/louisbranch/xplorehub/internal/services/shared/i18nhttp"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/webctx"
)

// resolveSession loads the viewer behind the session cookie. Rejected
// tokens clear the cookie; an unreachable API leaves the request anonymous.
func resolveSession(api *client.Client, policy requestmeta.Policy, logger *zap.Logger) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sessioncookie.Read(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			user, err := api.WithToken(token).WithLocale(i18nhttp.Locale(r)).Me(r.Context())
			if err != nil {
				switch apperrors.CodeOf(err) {
				case apperrors.CodeUnauthenticated, apperrors.CodeAuthTokenInvalid, apperrors.CodeNotFound:
					sessioncookie.Clear(w, requestmeta.IsHTTPS(r, policy))
				default:
					logger.Warn("resolve session", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			ctx := webctx.WithViewer(r.Context(), webctx.Viewer{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
				Role:  user.Role,
				Token: token,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// persistLanguage stores an explicit ?lang= choice in a cookie.
func persistLanguage() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if locale, persist := i18nhttp.ResolveLocale(r); persist {
				i18nhttp.SetLanguageCookie(w, locale)
			}
			next.ServeHTTP(w, r)
		})
	}
}
