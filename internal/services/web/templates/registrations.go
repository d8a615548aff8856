package templates

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// Registrations lists the viewer's orders, canceled ones included.
func Registrations(orders []client.Order, now time.Time, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<h1>`)
		b.text(T(loc, "web.registrations.heading"))
		b.raw(`</h1>`)
		if len(orders) == 0 {
			b.raw(`<p class="muted">`)
			b.text(T(loc, "web.registrations.empty"))
			b.raw(` <a href="`, routepath.Events, `">`)
			b.text(T(loc, "web.home.browse"))
			b.raw(`</a></p>`)
			return
		}
		b.raw(`<div class="cards">`)
		for _, o := range orders {
			b.raw(`<article class="card"><div class="body"><h3>`)
			started := false
			if o.Event != nil {
				started = !o.Event.Date.After(now)
				b.raw(`<a href="`)
				b.url(routepath.Event(o.EventID))
				b.raw(`">`)
				b.text(o.Event.Title)
				b.raw(`</a></h3><p class="muted">`)
				b.text(FormatDate(loc, o.Event.Date))
				b.raw(`</p>`)
			} else {
				b.text(o.EventID)
				b.raw(`</h3>`)
			}
			b.raw(`<p><span class="badge `, o.Status, `">`)
			b.text(StatusLabel(loc, o.Status))
			b.raw(`</span> `)
			b.text(T(loc, "web.registrations.summary", o.Quantity, o.TotalAmount))
			b.raw(`</p>`)
			if o.Status != "CANCELED" && !started {
				b.raw(`<p>`)
				if o.Status == "PENDING" {
					b.raw(`<a href="`)
					b.url(routepath.Payment(o.EventID))
					b.raw(`">`)
					b.text(T(loc, "web.registrations.pay"))
					b.raw(`</a> · `)
				}
				b.postButton(routepath.CancelRegistration(o.EventID), T(loc, "web.registrations.cancel"), "link", T(loc, "web.registrations.cancel_confirm"))
				b.raw(`</p>`)
			}
			b.raw(`</div></article>`)
		}
		b.raw(`</div>`)
	})
}
