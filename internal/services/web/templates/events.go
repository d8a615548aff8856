package templates

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// MaxAttendeeRows bounds the registration form.
const MaxAttendeeRows = 10

// HomeView is the landing page.
type HomeView struct {
	Upcoming []client.Event
}

// EventListView is the public listing.
type EventListView struct {
	City     string
	Events   []client.Event
	NextPage string
}

// AttendeeRow is one line of the registration form.
type AttendeeRow struct {
	Name  string
	Email string
}

// EventDetailView is an event page with its registration state.
type EventDetailView struct {
	Event     client.Event
	Started   bool
	CanManage bool
	SignedIn  bool
	// Order is the viewer's active registration.
	Order *client.Order
	Rows  []AttendeeRow
	Error string
}

func placeLine(a client.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.City, a.State, a.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func streetLine(a client.Address) string {
	line := a.Street
	if a.Number != "" {
		line += ", " + a.Number
	}
	if a.Neighborhood != "" {
		line += " - " + a.Neighborhood
	}
	return line
}

// PriceLabel renders an event price.
func PriceLabel(loc Localizer, ev client.Event) string {
	if ev.Free() {
		return T(loc, "web.event.free")
	}
	return T(loc, "web.event.price", ev.Price)
}

func spotsLabel(loc Localizer, ev client.Event) string {
	if ev.AvailableSpots == nil {
		return T(loc, "web.event.unlimited")
	}
	if *ev.AvailableSpots <= 0 {
		return T(loc, "web.event.sold_out")
	}
	return T(loc, "web.event.spots_left", *ev.AvailableSpots)
}

func eventCards(loc Localizer, b *htmlWriter, events []client.Event) {
	if len(events) == 0 {
		b.raw(`<p class="muted">`)
		b.text(T(loc, "web.events.empty"))
		b.raw(`</p>`)
		return
	}
	b.raw(`<div class="cards">`)
	for _, ev := range events {
		b.raw(`<article class="card">`)
		if ev.ImageURL != "" {
			b.raw(`<img src="`)
			b.url(ev.ImageURL)
			b.raw(`" alt="" loading="lazy">`)
		}
		b.raw(`<div class="body"><h3><a href="`)
		b.url(routepath.Event(ev.ID))
		b.raw(`">`)
		b.text(ev.Title)
		b.raw(`</a></h3><p class="muted">`)
		b.text(FormatDate(loc, ev.Date))
		b.raw(`<br>`)
		b.text(placeLine(ev.Address))
		b.raw(`</p><p><span class="badge">`)
		b.text(PriceLabel(loc, ev))
		b.raw(`</span> `)
		b.text(spotsLabel(loc, ev))
		b.raw(`</p></div></article>`)
	}
	b.raw(`</div>`)
}

// Home is the landing page body.
func Home(view HomeView, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<section><h1>`)
		b.text(T(loc, "web.home.heading"))
		b.raw(`</h1><p>`)
		b.text(T(loc, "core.tagline"))
		b.raw(`</p><p><a href="`, routepath.Events, `">`)
		b.text(T(loc, "web.home.browse"))
		b.raw(`</a> · <a href="`, routepath.Discovery, `">`)
		b.text(T(loc, "web.home.map"))
		b.raw(`</a> · <a href="`, routepath.CreateEvent, `">`)
		b.text(T(loc, "web.nav.create_event"))
		b.raw(`</a></p></section><section><h2>`)
		b.text(T(loc, "web.home.upcoming"))
		b.raw(`</h2>`)
		eventCards(loc, b, view.Upcoming)
		b.raw(`</section>`)
	})
}

// EventList is the listing body with its city filter.
func EventList(view EventListView, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<h1>`)
		b.text(T(loc, "web.events.heading"))
		b.raw(`</h1><form method="get" action="`, routepath.Events, `" class="inline">`)
		b.raw(`<input type="search" name="city" value="`)
		b.text(view.City)
		b.raw(`" placeholder="`)
		b.text(T(loc, "web.events.city_placeholder"))
		b.raw(`"> <button type="submit">`)
		b.text(T(loc, "web.events.filter"))
		b.raw(`</button></form><hr>`)
		eventCards(loc, b, view.Events)
		if view.NextPage != "" {
			b.raw(`<p><a href="`)
			b.url(view.NextPage)
			b.raw(`">`)
			b.text(T(loc, "web.events.next_page"))
			b.raw(`</a></p>`)
		}
	})
}

// EventDetail is the event page body.
func EventDetail(view EventDetailView, loc Localizer) templ.Component {
	return component(func(ctx context.Context, b *htmlWriter) {
		ev := view.Event
		b.raw(`<article>`)
		if ev.ImageURL != "" {
			b.raw(`<img src="`)
			b.url(ev.ImageURL)
			b.raw(`" alt="" style="width:100%;max-height:20rem;object-fit:cover;border-radius:.5rem">`)
		}
		b.raw(`<h1>`)
		b.text(ev.Title)
		b.raw(`</h1><p class="muted">`)
		b.text(FormatDate(loc, ev.Date))
		if ev.Location != "" {
			b.raw(` · `)
			b.text(ev.Location)
		}
		b.raw(`<br>`)
		b.text(streetLine(ev.Address))
		b.raw(`<br>`)
		b.text(placeLine(ev.Address))
		b.raw(`</p><p><span class="badge">`)
		b.text(PriceLabel(loc, ev))
		b.raw(`</span> `)
		b.text(spotsLabel(loc, ev))
		b.raw(` · `)
		b.text(T(loc, "web.event.organizer", ev.Creator.Name))
		b.raw(`</p>`)
		if view.CanManage {
			b.raw(`<p><a href="`)
			b.url(routepath.EditEvent(ev.ID))
			b.raw(`">`)
			b.text(T(loc, "web.my_events.edit"))
			b.raw(`</a> · <a href="`)
			b.url(routepath.Attendees(ev.ID))
			b.raw(`">`)
			b.text(T(loc, "web.my_events.attendees"))
			b.raw(`</a></p>`)
		}
		b.raw(`<section>`)
		b.render(ctx, Markdown(ev.Description))
		b.raw(`</section></article><section><h2>`)
		b.text(T(loc, "web.register.heading"))
		b.raw(`</h2>`)
		registration(view, loc, b)
		b.raw(`</section>`)
	})
}

func registration(view EventDetailView, loc Localizer, b *htmlWriter) {
	ev := view.Event
	switch {
	case view.Started:
		b.raw(`<p class="muted">`)
		b.text(T(loc, "web.register.past"))
		b.raw(`</p>`)
		return
	case !view.SignedIn:
		b.raw(`<p><a href="`)
		b.url(routepath.LoginWithNext(routepath.Event(ev.ID)))
		b.raw(`">`)
		b.text(T(loc, "web.register.login_required"))
		b.raw(`</a></p>`)
		return
	case view.Order != nil:
		b.raw(`<p>`)
		b.text(T(loc, "web.register.already", len(view.Order.Attendees)))
		b.raw(` <span class="badge `, view.Order.Status, `">`)
		b.text(StatusLabel(loc, view.Order.Status))
		b.raw(`</span></p><p>`)
		if view.Order.Status == "PENDING" {
			b.raw(`<a href="`)
			b.url(routepath.Payment(ev.ID))
			b.raw(`">`)
			b.text(T(loc, "web.registrations.pay"))
			b.raw(`</a> · `)
		}
		b.raw(`<a href="`, routepath.Registrations, `">`)
		b.text(T(loc, "web.nav.my_registrations"))
		b.raw(`</a></p>`)
		return
	case ev.SoldOut():
		b.raw(`<p class="muted">`)
		b.text(T(loc, "web.event.sold_out"))
		b.raw(`</p>`)
		return
	}

	b.fieldError(view.Error)
	b.raw(`<form method="post" class="stack" action="`)
	b.url(routepath.EventRegister(ev.ID))
	b.raw(`">`)
	for i, row := range view.Rows {
		b.raw(`<fieldset><legend>`)
		b.text(T(loc, "web.register.attendee", i+1))
		b.raw(`</legend>`)
		b.input(T(loc, "web.register.name"), "name", "text", row.Name, true, "")
		b.input(T(loc, "web.register.email"), "email", "email", row.Email, false, "")
		b.raw(`</fieldset>`)
	}
	b.raw(`<p>`)
	if len(view.Rows) < MaxAttendeeRows {
		b.raw(`<a href="`)
		b.url(routepath.Event(ev.ID) + "?attendees=" + strconv.Itoa(len(view.Rows)+1))
		b.raw(`">`)
		b.text(T(loc, "web.register.add_attendee"))
		b.raw(`</a> `)
	}
	b.raw(`</p><button type="submit">`)
	b.text(T(loc, "web.register.submit"))
	b.raw(`</button></form>`)
}

// StatusLabel renders an order status.
func StatusLabel(loc Localizer, status string) string {
	switch status {
	case "PENDING":
		return T(loc, "web.status.pending")
	case "CONFIRMED":
		return T(loc, "web.status.confirmed")
	case "CANCELED":
		return T(loc, "web.status.canceled")
	default:
		return status
	}
}
