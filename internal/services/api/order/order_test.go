package order

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/event"
)

var now = time.Date(2026, time.May, 10, 9, 0, 0, 0, time.UTC)

func sequentialIDs() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("id-%d", n), nil
	}
}

func TestCreatePricesAndSetsStatus(t *testing.T) {
	ev := event.Event{ID: "event-1", PriceCents: 1250, Date: now.Add(24 * time.Hour)}
	quantity := 2
	o, err := Create(CreateInput{
		EventID:   "event-1",
		Quantity:  &quantity,
		Attendees: []AttendeeInput{{Name: " Ana "}, {Name: "Bruno", Email: "Bruno@Example.com"}},
	}, "user-1", ev, func() time.Time { return now }, sequentialIDs())
	require.NoError(t, err)
	require.Equal(t, "id-1", o.ID)
	require.Equal(t, 2, o.Quantity)
	require.EqualValues(t, 2500, o.TotalCents)
	require.Equal(t, "25.00", o.Total())
	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, []Attendee{
		{ID: "id-2", OrderID: "id-1", Name: "Ana"},
		{ID: "id-3", OrderID: "id-1", Name: "Bruno", Email: "bruno@example.com"},
	}, o.Attendees)

	free := ev
	free.PriceCents = 0
	o, err = Create(CreateInput{EventID: "event-1", Attendees: []AttendeeInput{{Name: "Ana"}}}, "user-1", free,
		func() time.Time { return now }, sequentialIDs())
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, o.Status)
	require.Zero(t, o.TotalCents)
}

func TestCreateValidation(t *testing.T) {
	upcoming := event.Event{ID: "event-1", Date: now.Add(time.Hour)}
	three := 3
	tests := []struct {
		name  string
		input CreateInput
		ev    event.Event
		want  apperrors.Code
	}{
		{"missing event", CreateInput{Attendees: []AttendeeInput{{Name: "A"}}}, upcoming, apperrors.CodeInvalidArgument},
		{"no attendees", CreateInput{EventID: "event-1"}, upcoming, apperrors.CodeOrderAttendeesEmpty},
		{"quantity mismatch", CreateInput{EventID: "event-1", Quantity: &three, Attendees: []AttendeeInput{{Name: "A"}}}, upcoming, apperrors.CodeOrderQuantityMismatch},
		{"blank attendee", CreateInput{EventID: "event-1", Attendees: []AttendeeInput{{Name: "A"}, {Name: " "}}}, upcoming, apperrors.CodeOrderAttendeeInvalid},
		{"bad email", CreateInput{EventID: "event-1", Attendees: []AttendeeInput{{Name: "A", Email: "nope"}}}, upcoming, apperrors.CodeOrderAttendeeInvalid},
		{"past event", CreateInput{EventID: "event-1", Attendees: []AttendeeInput{{Name: "A"}}}, event.Event{ID: "event-1", Date: now.Add(-time.Hour)}, apperrors.CodeOrderEventStarted},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Create(tc.input, "user-1", tc.ev, func() time.Time { return now }, sequentialIDs())
			require.Equal(t, tc.want, apperrors.CodeOf(err), "err=%v", err)
		})
	}
}

func TestAttendeeErrorMetadataIsOneBased(t *testing.T) {
	_, err := NormalizeCreateInput(CreateInput{EventID: "e", Attendees: []AttendeeInput{{Name: "A"}, {Name: ""}}})
	e, ok := apperrors.As(err)
	require.True(t, ok)
	require.Equal(t, "2", e.Metadata["Index"])
}

func TestTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCanceled},
		{StatusPending, StatusPending},
		{StatusConfirmed, StatusCanceled},
		{StatusConfirmed, StatusConfirmed},
	}
	for _, pair := range allowed {
		require.NoError(t, Transition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
	denied := [][2]Status{
		{StatusConfirmed, StatusPending},
		{StatusCanceled, StatusConfirmed},
		{StatusCanceled, StatusPending},
	}
	for _, pair := range denied {
		err := Transition(pair[0], pair[1])
		require.Equal(t, apperrors.CodeOrderStatusTransitionDenied, apperrors.CodeOf(err), "%s -> %s", pair[0], pair[1])
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" confirmed ")
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, got)
	_, err = ParseStatus("REFUNDED")
	require.ErrorIs(t, err, ErrStatusInvalid)
}

func TestCanCancel(t *testing.T) {
	future := event.Event{Date: now.Add(time.Hour)}
	past := event.Event{Date: now.Add(-time.Hour)}
	require.NoError(t, CanCancel(Order{Status: StatusPending}, future, now))
	require.ErrorIs(t, CanCancel(Order{Status: StatusConfirmed}, past, now), ErrEventStarted)
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(CanCancel(Order{Status: StatusCanceled}, future, now)))
}
