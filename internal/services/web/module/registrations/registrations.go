// Package registrations serves the attendee side: the order list,
// cancellation and the checkout form.
package registrations

import (
	"net/http"
	"strings"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/module"
	"github.com/louisbranch/xplorehub/internal/services/web/payment"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/flash"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/pagerender"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/weberror"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
	"github.com/louisbranch/xplorehub/internal/services/web/templates"
)

// Module is the registrations surface. All routes require a session.
type Module struct {
	deps module.Dependencies
}

// New builds the registrations module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID implements module.Module.
func (Module) ID() string { return "registrations" }

// Routes implements module.Module.
func (m Module) Routes() []module.Route {
	return []module.Route{
		{Pattern: "GET " + routepath.Registrations, Handler: m.list},
		{Pattern: "POST " + routepath.CancelPattern, Handler: m.cancel},
		{Pattern: "GET " + routepath.PaymentPattern, Handler: m.checkout},
		{Pattern: "POST " + routepath.PaymentPattern, Handler: m.pay},
	}
}

func (m Module) list(w http.ResponseWriter, r *http.Request) {
	orders, err := m.deps.Scoped(r).MyOrders(r.Context())
	if err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	loc := pagerender.Localizer(r)
	m.deps.Render(w, r, pagerender.Page{
		Title: templates.T(loc, "web.registrations.heading"),
		Body:  templates.Registrations(orders, m.deps.Clock(), loc),
	})
}

func (m Module) cancel(w http.ResponseWriter, r *http.Request) {
	msg, err := m.deps.Scoped(r).CancelOrder(r.Context(), r.PathValue("eventID"))
	if err != nil {
		status := weberror.Status(err)
		if status >= http.StatusInternalServerError || status == http.StatusUnauthorized {
			m.deps.Fail(w, r, err)
			return
		}
		notice := flash.Error(weberror.PublicMessage(r, err))
		m.deps.Renderer.Redirect(w, r, routepath.Registrations, &notice)
		return
	}
	m.deps.Renderer.Redirect(w, r, routepath.Registrations, &flash.Notice{Kind: flash.KindSuccess, Text: msg.Message})
}

// pendingOrder loads the viewer's order for {eventID}. Orders that need no
// payment bounce back to the registrations list.
func (m Module) pendingOrder(w http.ResponseWriter, r *http.Request) (client.Order, client.Event, bool) {
	eventID := r.PathValue("eventID")
	api := m.deps.Scoped(r)
	order, err := api.OrderForEvent(r.Context(), eventID)
	if err != nil {
		m.deps.Fail(w, r, err)
		return client.Order{}, client.Event{}, false
	}
	if order.Status != "PENDING" {
		m.deps.Renderer.Redirect(w, r, routepath.Registrations, &flash.Notice{Kind: flash.KindInfo, Key: "web.payment.not_pending"})
		return client.Order{}, client.Event{}, false
	}
	if order.Event != nil {
		return order, *order.Event, true
	}
	ev, err := api.GetEvent(r.Context(), eventID)
	if err != nil {
		m.deps.Fail(w, r, err)
		return client.Order{}, client.Event{}, false
	}
	return order, ev, true
}

func (m Module) checkout(w http.ResponseWriter, r *http.Request) {
	order, ev, ok := m.pendingOrder(w, r)
	if !ok {
		return
	}
	m.renderCheckout(w, r, templates.PaymentView{Event: ev, Order: order}, http.StatusOK)
}

func (m Module) renderCheckout(w http.ResponseWriter, r *http.Request, view templates.PaymentView, status int) {
	loc := pagerender.Localizer(r)
	m.deps.Render(w, r, pagerender.Page{
		Title:  templates.T(loc, "web.payment.heading"),
		Status: status,
		Body:   templates.Payment(view, loc),
	})
}

// pay validates the card locally and confirms the order. Card fields are
// neither logged nor forwarded.
func (m Module) pay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	order, ev, ok := m.pendingOrder(w, r)
	if !ok {
		return
	}

	card := payment.Card{
		Holder: strings.TrimSpace(r.PostForm.Get("holder")),
		Number: r.PostForm.Get("number"),
		Expiry: r.PostForm.Get("expiry"),
		CVV:    r.PostForm.Get("cvv"),
	}
	if errs := payment.Validate(card, m.deps.Clock()); len(errs) > 0 {
		loc := pagerender.Localizer(r)
		view := templates.PaymentView{Event: ev, Order: order, Holder: card.Holder, Errors: make(map[string]string, len(errs))}
		for _, fe := range errs {
			view.Errors[fe.Field] = templates.T(loc, fe.Key)
		}
		m.renderCheckout(w, r, view, http.StatusBadRequest)
		return
	}

	if _, err := m.deps.Scoped(r).ChangeOrderStatus(r.Context(), ev.ID, "CONFIRMED"); err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	m.deps.Renderer.Redirect(w, r, routepath.Registrations, &flash.Notice{Kind: flash.KindSuccess, Key: "web.flash.payment_confirmed"})
}
