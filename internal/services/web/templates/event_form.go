package templates

import (
	"context"

	"github.com/a-h/templ"
)

// EventFormValues are the raw form inputs, echoed back on errors.
type EventFormValues struct {
	Title        string
	Description  string
	Date         string
	Location     string
	MaxAttendees string
	Price        string
	ImageURL     string
	Street       string
	Number       string
	Neighborhood string
	City         string
	State        string
	Country      string
	ZipCode      string
}

// EventFormView is the create or edit form.
type EventFormView struct {
	Heading string
	Action  string
	Submit  string
	Values  EventFormValues
	Error   string
}

// EventForm renders the event editor.
func EventForm(view EventFormView, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		v := view.Values
		b.raw(`<h1>`)
		b.text(view.Heading)
		b.raw(`</h1>`)
		b.fieldError(view.Error)
		b.raw(`<form method="post" enctype="multipart/form-data" class="stack" action="`)
		b.url(view.Action)
		b.raw(`">`)
		b.input(T(loc, "web.event_form.title"), "title", "text", v.Title, true, "")
		b.raw(`<label>`)
		b.text(T(loc, "web.event_form.description"))
		b.raw(`<textarea name="description" rows="6" required>`)
		b.text(v.Description)
		b.raw(`</textarea><small class="muted">`)
		b.text(T(loc, "web.event_form.markdown_hint"))
		b.raw(`</small></label>`)
		b.input(T(loc, "web.event_form.date"), "date", "datetime-local", v.Date, true, "")
		b.input(T(loc, "web.event_form.location"), "location", "text", v.Location, false, "")
		b.input(T(loc, "web.event_form.max_attendees"), "maxAttendees", "number", v.MaxAttendees, false, `min="1"`)
		b.input(T(loc, "web.event_form.price"), "price", "text", v.Price, false, `inputmode="decimal" placeholder="0.00"`)
		b.raw(`<fieldset><legend>`)
		b.text(T(loc, "web.event_form.address"))
		b.raw(`</legend>`)
		b.input(T(loc, "web.event_form.street"), "street", "text", v.Street, true, "")
		b.input(T(loc, "web.event_form.number"), "number", "text", v.Number, false, "")
		b.input(T(loc, "web.event_form.neighborhood"), "neighborhood", "text", v.Neighborhood, false, "")
		b.input(T(loc, "web.event_form.city"), "city", "text", v.City, true, "")
		b.input(T(loc, "web.event_form.state"), "state", "text", v.State, true, "")
		b.input(T(loc, "web.event_form.country"), "country", "text", v.Country, true, "")
		b.input(T(loc, "web.event_form.zip_code"), "zipCode", "text", v.ZipCode, false, "")
		b.raw(`</fieldset>`)
		b.input(T(loc, "web.event_form.image_url"), "imageUrl", "url", v.ImageURL, false, "")
		b.input(T(loc, "web.event_form.image"), "image", "file", "", false, `accept="image/jpeg,image/png,image/webp"`)
		b.raw(`<button type="submit">`)
		b.text(view.Submit)
		b.raw(`</button></form>`)
	})
}
