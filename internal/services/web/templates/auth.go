package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// AuthView drives the combined sign-in and sign-up page.
type AuthView struct {
	Next          string
	Email         string
	Name          string
	LoginError    string
	RegisterError string
}

// Auth renders the login and registration forms side by side.
func Auth(view AuthView, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<div class="cards"><section class="card"><div class="body"><h1>`)
		b.text(T(loc, "web.auth.login_heading"))
		b.raw(`</h1>`)
		b.fieldError(view.LoginError)
		b.raw(`<form method="post" class="stack" action="`, routepath.Login, `">`)
		b.raw(`<input type="hidden" name="next" value="`)
		b.text(view.Next)
		b.raw(`">`)
		b.input(T(loc, "web.auth.email"), "email", "email", view.Email, true, `autocomplete="username"`)
		b.input(T(loc, "web.auth.password"), "password", "password", "", true, `autocomplete="current-password"`)
		b.raw(`<button type="submit">`)
		b.text(T(loc, "web.auth.login_submit"))
		b.raw(`</button></form></div></section><section class="card"><div class="body"><h2>`)
		b.text(T(loc, "web.auth.register_heading"))
		b.raw(`</h2>`)
		b.fieldError(view.RegisterError)
		b.raw(`<form method="post" class="stack" action="`, routepath.Register, `">`)
		b.raw(`<input type="hidden" name="next" value="`)
		b.text(view.Next)
		b.raw(`">`)
		b.input(T(loc, "web.auth.name"), "name", "text", view.Name, true, `autocomplete="name"`)
		b.input(T(loc, "web.auth.email"), "email", "email", view.Email, true, `autocomplete="email"`)
		b.input(T(loc, "web.auth.password"), "password", "password", "", true, `minlength="6" autocomplete="new-password"`)
		b.raw(`<button type="submit">`)
		b.text(T(loc, "web.auth.register_submit"))
		b.raw(`</button></form></div></section></div>`)
	})
}
