package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/louisbranch/xplorehub/internal/services/web/module"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/webctx"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	PublicModules    []module.Module
	ProtectedModules []module.Module
	Policy           requestmeta.Policy
	// NotFound handles paths no module claims.
	NotFound http.Handler
}

// Compose builds a root HTTP handler from module groups.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)
	sameOrigin := requireCookieSessionSameOrigin(input.Policy)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		if err := mountModule(root, feature, seen, sameOrigin); err != nil {
			return nil, err
		}
	}

	protect := func(next http.Handler) http.Handler {
		return requireViewer(sameOrigin(next))
	}
	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		if err := mountModule(root, feature, seen, protect); err != nil {
			return nil, err
		}
	}

	if input.NotFound != nil {
		if _, taken := seen["/"]; !taken {
			root.Handle("/", input.NotFound)
		}
	}
	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, seen map[string]string, wrap func(http.Handler) http.Handler) error {
	routes := feature.Routes()
	if len(routes) == 0 {
		return fmt.Errorf("module %q declares no routes", feature.ID())
	}
	for _, route := range routes {
		pattern := strings.TrimSpace(route.Pattern)
		if err := validatePattern(pattern); err != nil {
			return fmt.Errorf("module %q has invalid pattern %q: %w", feature.ID(), route.Pattern, err)
		}
		if route.Handler == nil {
			return fmt.Errorf("module %q: handler for %q is required", feature.ID(), pattern)
		}
		if previous, ok := seen[pattern]; ok {
			return fmt.Errorf("module %q duplicates pattern %q owned by module %q", feature.ID(), pattern, previous)
		}
		seen[pattern] = feature.ID()
		root.Handle(pattern, wrap(route.Handler))
	}
	return nil
}

// validatePattern requires "METHOD /path" patterns.
func validatePattern(pattern string) error {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok || method == "" {
		return fmt.Errorf("pattern must start with a method")
	}
	if method != strings.ToUpper(method) {
		return fmt.Errorf("method must be upper case")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must begin with /")
	}
	return nil
}

// requireViewer sends anonymous requests to the login page, returning to
// the original page for GETs.
func requireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := webctx.ViewerFrom(r.Context()); !ok {
			target := ""
			if r.Method == http.MethodGet {
				target = r.URL.RequestURI()
			}
			http.Redirect(w, r, routepath.LoginWithNext(target), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireCookieSessionSameOrigin rejects cross-site form posts that would
// ride on the session cookie.
func requireCookieSessionSameOrigin(policy requestmeta.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.SameOrigin(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
