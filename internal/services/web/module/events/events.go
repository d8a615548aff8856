// Package events serves the public event pages and the registration form.
package events

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/module"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/flash"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/pagerender"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/webctx"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/weberror"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
	"github.com/louisbranch/xplorehub/internal/services/web/templates"
)

const (
	homePageSize = 6
	listPageSize = 12
)

// Module is the public events surface.
type Module struct {
	deps module.Dependencies
}

// New builds the events module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID implements module.Module.
func (Module) ID() string { return "events" }

// Routes implements module.Module.
func (m Module) Routes() []module.Route {
	return []module.Route{
		{Pattern: "GET " + routepath.Root + "{$}", Handler: m.home},
		{Pattern: "GET " + routepath.Events, Handler: m.list},
		{Pattern: "GET " + routepath.EventPattern, Handler: m.detail},
		{Pattern: "POST " + routepath.RegisterPattern, Handler: m.register},
	}
}

func (m Module) home(w http.ResponseWriter, r *http.Request) {
	page, err := m.deps.Scoped(r).ListEvents(r.Context(), client.ListEventsParams{Upcoming: true, PageSize: homePageSize})
	if err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	loc := pagerender.Localizer(r)
	m.deps.Render(w, r, pagerender.Page{Body: templates.Home(templates.HomeView{Upcoming: page.Events}, loc)})
}

func (m Module) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	city := strings.TrimSpace(query.Get("city"))
	page, err := m.deps.Scoped(r).ListEvents(r.Context(), client.ListEventsParams{
		City:      city,
		Upcoming:  true,
		PageSize:  listPageSize,
		PageToken: query.Get("page_token"),
	})
	if err != nil {
		m.deps.Fail(w, r, err)
		return
	}

	view := templates.EventListView{City: city, Events: page.Events}
	if page.NextPageToken != "" {
		next := url.Values{"page_token": {page.NextPageToken}}
		if city != "" {
			next.Set("city", city)
		}
		view.NextPage = routepath.Events + "?" + next.Encode()
	}
	loc := pagerender.Localizer(r)
	m.deps.Render(w, r, pagerender.Page{
		Title: templates.T(loc, "web.events.heading"),
		Body:  templates.EventList(view, loc),
	})
}

func (m Module) detail(w http.ResponseWriter, r *http.Request) {
	m.renderDetail(w, r, nil, "", http.StatusOK)
}

// renderDetail shows the event page. rows and formErr echo a rejected
// registration back to the form.
func (m Module) renderDetail(w http.ResponseWriter, r *http.Request, rows []templates.AttendeeRow, formErr string, status int) {
	id := r.PathValue("id")
	api := m.deps.Scoped(r)
	ev, err := api.GetEvent(r.Context(), id)
	if err != nil {
		m.deps.Fail(w, r, err)
		return
	}

	viewer, signedIn := webctx.ViewerFrom(r.Context())
	view := templates.EventDetailView{
		Event:     ev,
		Started:   !ev.Date.After(m.deps.Clock()),
		CanManage: viewer.CanManage(ev.CreatorID),
		SignedIn:  signedIn,
		Rows:      rows,
		Error:     formErr,
	}
	if signedIn {
		order, err := api.OrderForEvent(r.Context(), id)
		switch {
		case err == nil && order.Status != "CANCELED":
			view.Order = &order
		case err != nil && apperrors.CodeOf(err) != apperrors.CodeNotFound:
			m.deps.Fail(w, r, err)
			return
		}
	}
	if view.Rows == nil {
		view.Rows = defaultRows(r, viewer)
	}

	m.deps.Render(w, r, pagerender.Page{
		Title:  ev.Title,
		Status: status,
		Body:   templates.EventDetail(view, pagerender.Localizer(r)),
	})
}

// defaultRows sizes the form from ?attendees=N and prefills the viewer.
func defaultRows(r *http.Request, viewer webctx.Viewer) []templates.AttendeeRow {
	n, err := strconv.Atoi(r.URL.Query().Get("attendees"))
	if err != nil || n < 1 {
		n = 1
	}
	n = min(n, templates.MaxAttendeeRows)
	rows := make([]templates.AttendeeRow, n)
	rows[0] = templates.AttendeeRow{Name: viewer.Name, Email: viewer.Email}
	return rows
}

func (m Module) register(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := webctx.ViewerFrom(r.Context()); !ok {
		m.deps.Renderer.Redirect(w, r, routepath.LoginWithNext(routepath.Event(id)), nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		m.deps.Fail(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse registration form", err))
		return
	}

	rows, attendees := attendeeRows(r.PostForm["name"], r.PostForm["email"])
	loc := pagerender.Localizer(r)
	if len(attendees) == 0 {
		m.renderDetail(w, r, rows, templates.T(loc, "web.register.error_no_attendees"), http.StatusBadRequest)
		return
	}

	receipt, err := m.deps.Scoped(r).CreateOrder(r.Context(), client.OrderInput{EventID: id, Attendees: attendees})
	if err != nil {
		switch status := weberror.Status(err); status {
		case http.StatusBadRequest, http.StatusConflict:
			m.renderDetail(w, r, rows, weberror.PublicMessage(r, err), status)
		default:
			m.deps.Fail(w, r, err)
		}
		return
	}

	target := routepath.Event(id)
	if receipt.Status == "PENDING" {
		target = routepath.Payment(id)
	}
	m.deps.Renderer.Redirect(w, r, target, &flash.Notice{Kind: flash.KindSuccess, Text: receipt.Message})
}

// attendeeRows pairs the repeated name and email inputs. Rows without a
// name are kept for re-rendering but not submitted.
func attendeeRows(names, emails []string) ([]templates.AttendeeRow, []client.Attendee) {
	n := min(len(names), templates.MaxAttendeeRows)
	rows := make([]templates.AttendeeRow, 0, n)
	attendees := make([]client.Attendee, 0, n)
	for i := 0; i < n; i++ {
		row := templates.AttendeeRow{Name: strings.TrimSpace(names[i])}
		if i < len(emails) {
			row.Email = strings.TrimSpace(emails[i])
		}
		rows = append(rows, row)
		if row.Name != "" {
			attendees = append(attendees, client.Attendee{Name: row.Name, Email: row.Email})
		}
	}
	if len(rows) == 0 {
		rows = append(rows, templates.AttendeeRow{})
	}
	return rows, attendees
}
