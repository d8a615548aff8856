package myevents

import (
	"net/http"
	"net/url"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/module/testkit"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/flash"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

func eventForm(date string) url.Values {
	return url.Values{
		"title":        {"Frevo Night"},
		"description":  {"Dance all night."},
		"date":         {date},
		"location":     {"Paco do Frevo"},
		"maxAttendees": {"40"},
		"price":        {"25.00"},
		"street":       {"Praca do Arsenal"},
		"city":         {"Recife"},
		"state":        {"PE"},
		"country":      {"Brasil"},
	}
}

func TestCreateWithBadDateRerendersForm(t *testing.T) {
	api := testkit.NewAPI(t)

	req := testkit.SignedIn(testkit.NewRequest(http.MethodPost, routepath.CreateEvent, eventForm("next friday")), testkit.Viewer)
	rec := testkit.Serve(t, New(api.Dependencies()), req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please enter a valid date.")
	assert.Contains(t, body, `value="Frevo Night"`)
	assert.False(t, slices.Contains(api.Calls(), "POST /events"), "invalid form must not reach the API")
}

func TestCreateRejectedByAPIRerendersForm(t *testing.T) {
	api := testkit.NewAPI(t)
	api.Handle("POST /events", testkit.Error(http.StatusBadRequest, apperrors.CodeEventTitleEmpty, nil))

	req := testkit.SignedIn(testkit.NewRequest(http.MethodPost, routepath.CreateEvent, eventForm("2026-05-01T20:00")), testkit.Viewer)
	rec := testkit.Serve(t, New(api.Dependencies()), req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required.")
}

func TestCreateUpstreamFailureRendersErrorPage(t *testing.T) {
	api := testkit.NewAPI(t)
	api.Handle("POST /events", testkit.Error(http.StatusBadGateway, apperrors.CodeMediaUploadFailed, nil))

	req := testkit.SignedIn(testkit.NewRequest(http.MethodPost, routepath.CreateEvent, eventForm("2026-05-01T20:00")), testkit.Viewer)
	rec := testkit.Serve(t, New(api.Dependencies()), req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestCreateRedirectsToNewEvent(t *testing.T) {
	api := testkit.NewAPI(t)
	api.Handle("POST /events", testkit.JSON(http.StatusCreated, testkit.Event("e9")))

	req := testkit.SignedIn(testkit.NewRequest(http.MethodPost, routepath.CreateEvent, eventForm("2026-05-01T20:00")), testkit.Viewer)
	rec := testkit.Serve(t, New(api.Dependencies()), req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, routepath.Event("e9"), rec.Header().Get("Location"))
	notice, ok := testkit.Flash(t, rec)
	require.True(t, ok)
	assert.Equal(t, flash.Notice{Kind: flash.KindSuccess, Key: "web.flash.event_created"}, notice)
}

func TestEditOfAnotherUsersEventIsForbidden(t *testing.T) {
	api := testkit.NewAPI(t)
	api.Handle("GET /events/e1", testkit.JSON(http.StatusOK, testkit.Event("e1")))

	stranger := testkit.Viewer
	stranger.ID = "u2"
	for _, target := range []string{routepath.EditEvent("e1"), routepath.Attendees("e1")} {
		req := testkit.SignedIn(testkit.NewRequest(http.MethodGet, target, nil), stranger)
		rec := testkit.Serve(t, New(api.Dependencies()), req)

		assert.Equal(t, http.StatusForbidden, rec.Code, target)
	}
	assert.False(t, slices.Contains(api.Calls(), "GET /events/e1/attendees"), "attendees must stay private")
}

func TestAdminMayEditAnyEvent(t *testing.T) {
	api := testkit.NewAPI(t)
	api.Handle("GET /events/e1", testkit.JSON(http.StatusOK, testkit.Event("e1")))

	admin := testkit.Viewer
	admin.ID, admin.Role = "u3", "ADMIN"
	req := testkit.SignedIn(testkit.NewRequest(http.MethodGet, routepath.EditEvent("e1"), nil), admin)
	rec := testkit.Serve(t, New(api.Dependencies()), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Frevo Night"`)
}

func TestDeleteFailureRendersErrorPage(t *testing.T) {
	api := testkit.NewAPI(t)
	api.Handle("DELETE /events/e1", testkit.Error(http.StatusForbidden, apperrors.CodeEventNotOwner, nil))

	req := testkit.SignedIn(testkit.NewRequest(http.MethodPost, routepath.DeleteEvent("e1"), url.Values{}), testkit.Viewer)
	rec := testkit.Serve(t, New(api.Dependencies()), req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, ok := testkit.Flash(t, rec)
	assert.False(t, ok)
}

func TestDeleteQueuesAPIMessage(t *testing.T) {
	api := testkit.NewAPI(t)
	api.Handle("DELETE /events/e1", testkit.JSON(http.StatusOK, client.Message{Message: "Event deleted."}))

	req := testkit.SignedIn(testkit.NewRequest(http.MethodPost, routepath.DeleteEvent("e1"), url.Values{}), testkit.Viewer)
	rec := testkit.Serve(t, New(api.Dependencies()), req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, routepath.MyEvents, rec.Header().Get("Location"))
	notice, ok := testkit.Flash(t, rec)
	require.True(t, ok)
	assert.Equal(t, "Event deleted.", notice.Text)
}

func TestListFailureRendersErrorPage(t *testing.T) {
	api := testkit.NewAPI(t)
	api.Handle("GET /events/my-events", testkit.Error(http.StatusInternalServerError, apperrors.CodeUnknown, nil))

	req := testkit.SignedIn(testkit.NewRequest(http.MethodGet, routepath.MyEvents, nil), testkit.Viewer)
	rec := testkit.Serve(t, New(api.Dependencies()), req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestFormValuesRoundTripDateInput(t *testing.T) {
	ev := testkit.Event("e1")
	capacity := 40
	ev.MaxAttendees = &capacity

	v := formValues(ev)

	assert.Equal(t, "2026-04-23T12:00", v.Date)
	assert.Equal(t, "40", v.MaxAttendees)
	assert.Equal(t, "Recife", v.City)
}
