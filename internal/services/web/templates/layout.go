package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/services/shared/i18nhttp"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// Viewer is the signed-in user, if any.
type Viewer struct {
	Name  string
	Email string
}

// Notice is a one-time message shown above the page body.
type Notice struct {
	Kind    string
	Message string
}

// Page is the shared layout context.
type Page struct {
	Title     string
	Lang      string
	Loc       Localizer
	Viewer    *Viewer
	Languages []i18nhttp.LanguageOption
	Notice    *Notice
	// Head is appended to <head>, for page-specific assets.
	Head templ.Component
}

const styles = `body{font-family:system-ui,sans-serif;margin:0;color:#1d2430;background:#f6f7fb}
header{background:#12355b;color:#fff;padding:.75rem 1.5rem}
header a,header button{color:#fff;margin-right:1rem;text-decoration:none;background:none;border:0;font:inherit;cursor:pointer}
header .brand{font-weight:700;font-size:1.2rem}
nav{display:flex;flex-wrap:wrap;align-items:center;gap:.25rem}
nav .spacer{flex:1}
main{max-width:60rem;margin:1.5rem auto;padding:0 1rem}
footer{text-align:center;color:#667;padding:2rem 1rem}
.notice{max-width:60rem;margin:1rem auto;padding:.75rem 1rem;border-radius:.5rem}
.notice.success{background:#dff5e3}.notice.info{background:#e2ecfb}.notice.error{background:#fbe2e2}
.cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(16rem,1fr));gap:1rem}
.card{background:#fff;border-radius:.5rem;box-shadow:0 1px 3px #0002;overflow:hidden}
.card img{width:100%;height:9rem;object-fit:cover}
.card .body{padding:.75rem 1rem}
.muted{color:#667}.badge{display:inline-block;padding:.1rem .5rem;border-radius:1rem;background:#e2ecfb;font-size:.85rem}
.badge.PENDING{background:#fff1c2}.badge.CONFIRMED{background:#dff5e3}.badge.CANCELED{background:#eee}
form.stack{display:grid;gap:.75rem;max-width:32rem}
form.stack label{display:grid;gap:.25rem}
form.inline{display:inline}
input,textarea,select{padding:.45rem;border:1px solid #bbc;border-radius:.35rem;font:inherit}
button{padding:.45rem .9rem;border-radius:.35rem;border:0;background:#12355b;color:#fff;cursor:pointer}
button.danger{background:#a33}button.link{background:none;color:#12355b;text-decoration:underline;padding:0}
.field-error{color:#a33;margin:0}
table{width:100%;border-collapse:collapse;background:#fff}th,td{text-align:left;padding:.5rem;border-bottom:1px solid #e4e6ee}
#map{height:28rem;border-radius:.5rem}`

// Layout wraps body in the site chrome.
func Layout(page Page, body templ.Component) templ.Component {
	return component(func(ctx context.Context, b *htmlWriter) {
		loc := page.Loc
		appName := T(loc, "core.app_name")
		b.raw(`<!doctype html><html lang="`)
		b.text(page.Lang)
		b.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if page.Title != "" {
			b.text(page.Title)
			b.raw(` · `)
		}
		b.text(appName)
		b.raw(`</title><style>`, styles, `</style>`)
		b.render(ctx, page.Head)
		b.raw(`</head><body><header><nav>`)
		navLink(b, routepath.Root, appName, "brand")
		navLink(b, routepath.Events, T(loc, "web.nav.events"), "")
		navLink(b, routepath.Discovery, T(loc, "web.nav.discovery"), "")
		if page.Viewer != nil {
			navLink(b, routepath.CreateEvent, T(loc, "web.nav.create_event"), "")
			navLink(b, routepath.MyEvents, T(loc, "web.nav.my_events"), "")
			navLink(b, routepath.Registrations, T(loc, "web.nav.my_registrations"), "")
		}
		b.raw(`<span class="spacer"></span>`)
		for _, option := range page.Languages {
			if option.Active {
				continue
			}
			navLink(b, option.URL, option.Label, "")
		}
		if page.Viewer != nil {
			b.raw(`<span>`)
			b.text(page.Viewer.Name)
			b.raw(`</span>`)
			b.postButton(routepath.Logout, T(loc, "web.nav.logout"), "link", "")
		} else {
			navLink(b, routepath.Login, T(loc, "web.nav.login"), "")
		}
		b.raw(`</nav></header>`)
		if page.Notice != nil && page.Notice.Message != "" {
			b.raw(`<div class="notice `, noticeClass(page.Notice.Kind), `" role="status">`)
			b.text(page.Notice.Message)
			b.raw(`</div>`)
		}
		b.raw(`<main>`)
		b.render(ctx, body)
		b.raw(`</main><footer>`)
		b.text(T(loc, "core.tagline"))
		b.raw(`</footer></body></html>`)
	})
}

func navLink(b *htmlWriter, href, label, class string) {
	b.raw(`<a href="`)
	b.url(href)
	b.raw(`"`)
	if class != "" {
		b.raw(` class="`, class, `"`)
	}
	b.raw(`>`)
	b.text(label)
	b.raw(`</a>`)
}

func noticeClass(kind string) string {
	switch kind {
	case "success", "error":
		return kind
	default:
		return "info"
	}
}

// ErrorState is the body of an error page.
func ErrorState(heading, message string, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<section><h1>`)
		b.text(heading)
		b.raw(`</h1><p>`)
		b.text(message)
		b.raw(`</p><p><a href="`, routepath.Root, `">`)
		b.text(T(loc, "web.error.back_home"))
		b.raw(`</a></p></section>`)
	})
}
