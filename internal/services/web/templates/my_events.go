package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// MyEvents lists the events the viewer created.
func MyEvents(events []client.Event, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<h1>`)
		b.text(T(loc, "web.my_events.heading"))
		b.raw(`</h1><p><a href="`, routepath.CreateEvent, `">`)
		b.text(T(loc, "web.nav.create_event"))
		b.raw(`</a></p>`)
		if len(events) == 0 {
			b.raw(`<p class="muted">`)
			b.text(T(loc, "web.my_events.empty"))
			b.raw(`</p>`)
			return
		}
		b.raw(`<table><thead><tr><th>`)
		b.text(T(loc, "web.event_form.title"))
		b.raw(`</th><th>`)
		b.text(T(loc, "web.event_form.date"))
		b.raw(`</th><th>`)
		b.text(T(loc, "web.my_events.registered"))
		b.raw(`</th><th></th></tr></thead><tbody>`)
		for _, ev := range events {
			b.raw(`<tr><td><a href="`)
			b.url(routepath.Event(ev.ID))
			b.raw(`">`)
			b.text(ev.Title)
			b.raw(`</a></td><td>`)
			b.text(FormatDate(loc, ev.Date))
			b.raw(`</td><td>`)
			b.int(ev.RegisteredCount)
			if ev.MaxAttendees != nil {
				b.raw(` / `)
				b.int(*ev.MaxAttendees)
			}
			b.raw(`</td><td><a href="`)
			b.url(routepath.EditEvent(ev.ID))
			b.raw(`">`)
			b.text(T(loc, "web.my_events.edit"))
			b.raw(`</a> · <a href="`)
			b.url(routepath.Attendees(ev.ID))
			b.raw(`">`)
			b.text(T(loc, "web.my_events.attendees"))
			b.raw(`</a> · `)
			b.postButton(routepath.DeleteEvent(ev.ID), T(loc, "web.my_events.delete"), "link", T(loc, "web.my_events.delete_confirm"))
			b.raw(`</td></tr>`)
		}
		b.raw(`</tbody></table>`)
	})
}

// Attendees lists everyone registered for ev.
func Attendees(ev client.Event, attendees []client.Attendee, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<h1>`)
		b.text(T(loc, "web.attendees.heading", ev.Title))
		b.raw(`</h1><p class="muted">`)
		b.text(T(loc, "web.attendees.count", len(attendees)))
		b.raw(`</p>`)
		if len(attendees) == 0 {
			return
		}
		b.raw(`<table><thead><tr><th>`)
		b.text(T(loc, "web.register.name"))
		b.raw(`</th><th>`)
		b.text(T(loc, "web.register.email"))
		b.raw(`</th></tr></thead><tbody>`)
		for _, a := range attendees {
			b.raw(`<tr><td>`)
			b.text(a.Name)
			b.raw(`</td><td>`)
			b.text(a.Email)
			b.raw(`</td></tr>`)
		}
		b.raw(`</tbody></table>`)
	})
}
