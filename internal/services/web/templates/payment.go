package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// PaymentView is the checkout page of a pending order.
type PaymentView struct {
	Event  client.Event
	Order  client.Order
	Holder string
	// Errors maps form fields to localized messages.
	Errors map[string]string
}

// Payment renders the order summary and card form.
func Payment(view PaymentView, loc Localizer) templ.Component {
	return component(func(_ context.Context, b *htmlWriter) {
		b.raw(`<h1>`)
		b.text(T(loc, "web.payment.heading"))
		b.raw(`</h1><section class="card"><div class="body"><h2>`)
		b.text(view.Event.Title)
		b.raw(`</h2><p class="muted">`)
		b.text(FormatDate(loc, view.Event.Date))
		b.raw(`</p><ul>`)
		for _, a := range view.Order.Attendees {
			b.raw(`<li>`)
			b.text(a.Name)
			b.raw(`</li>`)
		}
		b.raw(`</ul><p><strong>`)
		b.text(T(loc, "web.payment.total", view.Order.TotalAmount))
		b.raw(`</strong></p></div></section>`)

		b.raw(`<form method="post" class="stack" autocomplete="off" action="`)
		b.url(routepath.Payment(view.Event.ID))
		b.raw(`"><p class="muted">`)
		b.text(T(loc, "web.payment.cards_accepted"))
		b.raw(`</p>`)
		b.input(T(loc, "web.payment.holder"), "holder", "text", view.Holder, true, "")
		b.fieldError(view.Errors["holder"])
		b.input(T(loc, "web.payment.number"), "number", "text", "", true, `inputmode="numeric" autocomplete="cc-number"`)
		b.fieldError(view.Errors["number"])
		b.input(T(loc, "web.payment.expiry"), "expiry", "text", "", true, `placeholder="MM/YY" pattern="(0[1-9]|1[0-2])/[0-9]{2}"`)
		b.fieldError(view.Errors["expiry"])
		b.input(T(loc, "web.payment.cvv"), "cvv", "password", "", true, `inputmode="numeric" pattern="[0-9]{3,4}"`)
		b.fieldError(view.Errors["cvv"])
		b.raw(`<button type="submit">`)
		b.text(T(loc, "web.payment.submit"))
		b.raw(`</button></form>`)
	})
}
