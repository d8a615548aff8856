// Package auth serves sign-in, sign-up and sign-out.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/module"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/flash"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/pagerender"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/webctx"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/weberror"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
	"github.com/louisbranch/xplorehub/internal/services/web/templates"
)

// Module is the account surface.
type Module struct {
	deps module.Dependencies
}

// New builds the auth module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID implements module.Module.
func (Module) ID() string { return "auth" }

// Routes implements module.Module.
func (m Module) Routes() []module.Route {
	return []module.Route{
		{Pattern: "GET " + routepath.Login, Handler: m.loginPage},
		{Pattern: "POST " + routepath.Login, Handler: m.login},
		{Pattern: "POST " + routepath.Register, Handler: m.register},
		{Pattern: "POST " + routepath.Logout, Handler: m.logout},
	}
}

func (m Module) loginPage(w http.ResponseWriter, r *http.Request) {
	next := SafeNext(r.URL.Query().Get("next"))
	if _, ok := webctx.ViewerFrom(r.Context()); ok {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	m.renderForms(w, r, templates.AuthView{Next: next}, http.StatusOK)
}

func (m Module) renderForms(w http.ResponseWriter, r *http.Request, view templates.AuthView, status int) {
	loc := pagerender.Localizer(r)
	m.deps.Render(w, r, pagerender.Page{
		Title:  templates.T(loc, "web.auth.title"),
		Status: status,
		Body:   templates.Auth(view, loc),
	})
}

func (m Module) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	next := SafeNext(r.PostForm.Get("next"))

	auth, err := m.deps.Scoped(r).Login(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		m.rejectForm(w, r, err, templates.AuthView{Next: next, Email: email}, func(v *templates.AuthView, msg string) { v.LoginError = msg })
		return
	}
	m.startSession(w, r, auth, next, "web.flash.signed_in")
}

func (m Module) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	input := client.RegisterInput{
		Name:     strings.TrimSpace(r.PostForm.Get("name")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	next := SafeNext(r.PostForm.Get("next"))

	auth, err := m.deps.Scoped(r).Register(r.Context(), input)
	if err != nil {
		m.rejectForm(w, r, err, templates.AuthView{Next: next, Email: input.Email, Name: input.Name}, func(v *templates.AuthView, msg string) { v.RegisterError = msg })
		return
	}
	m.startSession(w, r, auth, next, "web.flash.signed_up")
}

// rejectForm re-renders the forms for credential and validation errors.
func (m Module) rejectForm(w http.ResponseWriter, r *http.Request, err error, view templates.AuthView, set func(*templates.AuthView, string)) {
	status := weberror.Status(err)
	if status >= http.StatusInternalServerError {
		m.deps.Fail(w, r, err)
		return
	}
	set(&view, weberror.PublicMessage(r, err))
	m.renderForms(w, r, view, status)
}

func (m Module) startSession(w http.ResponseWriter, r *http.Request, auth client.Auth, next, noticeKey string) {
	var ttl time.Duration
	if exp := tokenExpiry(auth.AccessToken); !exp.IsZero() {
		ttl = exp.Sub(m.deps.Clock())
	}
	sessioncookie.Write(w, auth.AccessToken, ttl, m.deps.Renderer.Secure(r))
	m.deps.Renderer.Redirect(w, r, next, &flash.Notice{Kind: flash.KindSuccess, Key: noticeKey})
}

func (m Module) logout(w http.ResponseWriter, r *http.Request) {
	sessioncookie.Clear(w, m.deps.Renderer.Secure(r))
	m.deps.Renderer.Redirect(w, r, routepath.Root, &flash.Notice{Kind: flash.KindInfo, Key: "web.flash.signed_out"})
}

// tokenExpiry reads the exp claim so the cookie dies with the token. The
// API verifies the signature on every call; a token without exp yields a
// browser-session cookie.
func tokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// SafeNext keeps post-login redirects on this site.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return routepath.Root
	}
	return next
}
