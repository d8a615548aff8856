// Package myevents serves the organizer pages: create, edit, delete and
// the attendee list.
package myevents

import (
	"errors"
	"net/http"

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

// Module is the organizer surface. All routes require a session.
type Module struct {
	deps module.Dependencies
}

// New builds the myevents module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID implements module.Module.
func (Module) ID() string { return "myevents" }

// Routes implements module.Module.
func (m Module) Routes() []module.Route {
	return []module.Route{
		{Pattern: "GET " + routepath.CreateEvent, Handler: m.createPage},
		{Pattern: "POST " + routepath.CreateEvent, Handler: m.create},
		{Pattern: "GET " + routepath.MyEvents, Handler: m.list},
		{Pattern: "GET " + routepath.EditPattern, Handler: m.editPage},
		{Pattern: "POST " + routepath.EditPattern, Handler: m.edit},
		{Pattern: "POST " + routepath.DeletePattern, Handler: m.remove},
		{Pattern: "GET " + routepath.AttendeePattern, Handler: m.attendees},
	}
}

func (m Module) list(w http.ResponseWriter, r *http.Request) {
	events, err := m.deps.Scoped(r).MyEvents(r.Context())
	if err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	loc := pagerender.Localizer(r)
	m.deps.Render(w, r, pagerender.Page{
		Title: templates.T(loc, "web.my_events.heading"),
		Body:  templates.MyEvents(events, loc),
	})
}

func (m Module) createPage(w http.ResponseWriter, r *http.Request) {
	m.renderForm(w, r, "", templates.EventFormValues{}, "", http.StatusOK)
}

// renderForm shows the editor; an empty id means create.
func (m Module) renderForm(w http.ResponseWriter, r *http.Request, id string, values templates.EventFormValues, formErr string, status int) {
	loc := pagerender.Localizer(r)
	view := templates.EventFormView{
		Heading: templates.T(loc, "web.event_form.create_heading"),
		Action:  routepath.CreateEvent,
		Submit:  templates.T(loc, "web.event_form.create_submit"),
		Values:  values,
		Error:   formErr,
	}
	if id != "" {
		view.Heading = templates.T(loc, "web.event_form.edit_heading")
		view.Action = routepath.EditEvent(id)
		view.Submit = templates.T(loc, "web.event_form.edit_submit")
	}
	m.deps.Render(w, r, pagerender.Page{Title: view.Heading, Status: status, Body: templates.EventForm(view, loc)})
}

func (m Module) create(w http.ResponseWriter, r *http.Request) {
	m.save(w, r, "", func(api *client.Client, sub submission) (client.Event, error) {
		return api.CreateEvent(r.Context(), sub.input, sub.image)
	}, "web.flash.event_created")
}

func (m Module) editPage(w http.ResponseWriter, r *http.Request) {
	ev, ok := m.ownedEvent(w, r)
	if !ok {
		return
	}
	m.renderForm(w, r, ev.ID, formValues(ev), "", http.StatusOK)
}

func (m Module) edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m.save(w, r, id, func(api *client.Client, sub submission) (client.Event, error) {
		return api.UpdateEvent(r.Context(), id, sub.input, sub.image)
	}, "web.flash.event_updated")
}

// save parses the editor, calls the API and re-renders the form on
// errors the organizer can fix.
func (m Module) save(w http.ResponseWriter, r *http.Request, id string, call func(*client.Client, submission) (client.Event, error), noticeKey string) {
	loc := pagerender.Localizer(r)
	sub, err := parseForm(w, r)
	defer sub.cleanup()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = apperrors.New(apperrors.CodeMediaTooLarge, "upload exceeds limit")
			m.renderForm(w, r, id, sub.values, weberror.PublicMessage(r, err), http.StatusRequestEntityTooLarge)
			return
		}
		m.deps.Fail(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse event form", err))
		return
	}
	if sub.errKey != "" {
		m.renderForm(w, r, id, sub.values, templates.T(loc, sub.errKey), http.StatusBadRequest)
		return
	}

	ev, err := call(m.deps.Scoped(r), sub)
	if err != nil {
		switch status := weberror.Status(err); status {
		case http.StatusBadRequest, http.StatusConflict, http.StatusRequestEntityTooLarge:
			m.renderForm(w, r, id, sub.values, weberror.PublicMessage(r, err), status)
		default:
			m.deps.Fail(w, r, err)
		}
		return
	}
	m.deps.Renderer.Redirect(w, r, routepath.Event(ev.ID), &flash.Notice{Kind: flash.KindSuccess, Key: noticeKey})
}

func (m Module) remove(w http.ResponseWriter, r *http.Request) {
	msg, err := m.deps.Scoped(r).DeleteEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	m.deps.Renderer.Redirect(w, r, routepath.MyEvents, &flash.Notice{Kind: flash.KindSuccess, Text: msg.Message})
}

func (m Module) attendees(w http.ResponseWriter, r *http.Request) {
	ev, ok := m.ownedEvent(w, r)
	if !ok {
		return
	}
	attendees, err := m.deps.Scoped(r).Attendees(r.Context(), ev.ID)
	if err != nil {
		m.deps.Fail(w, r, err)
		return
	}
	loc := pagerender.Localizer(r)
	m.deps.Render(w, r, pagerender.Page{
		Title: templates.T(loc, "web.my_events.attendees"),
		Body:  templates.Attendees(ev, attendees, loc),
	})
}

// ownedEvent loads the {id} event and checks the viewer may manage it.
func (m Module) ownedEvent(w http.ResponseWriter, r *http.Request) (client.Event, bool) {
	ev, err := m.deps.Scoped(r).GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		m.deps.Fail(w, r, err)
		return client.Event{}, false
	}
	viewer, _ := webctx.ViewerFrom(r.Context())
	if !viewer.CanManage(ev.CreatorID) {
		m.deps.Fail(w, r, apperrors.New(apperrors.CodeEventNotOwner, "event belongs to another user"))
		return client.Event{}, false
	}
	return ev, true
}
