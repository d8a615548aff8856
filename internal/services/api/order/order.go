// Package order models registrations (orders) and the attendees they carry.
package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/id"
	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/event"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
)

var (
	// ErrAttendeesEmpty indicates an order without attendees.
	ErrAttendeesEmpty = apperrors.New(apperrors.CodeOrderAttendeesEmpty, "at least one attendee is required")
	// ErrAlreadyRegistered indicates a second active order for the same event.
	ErrAlreadyRegistered = apperrors.New(apperrors.CodeOrderAlreadyRegistered, "user already registered for event")
	// ErrEventStarted indicates a registration change after the event date.
	ErrEventStarted = apperrors.New(apperrors.CodeOrderEventStarted, "event already took place")
	// ErrStatusInvalid indicates an unknown status name.
	ErrStatusInvalid = apperrors.New(apperrors.CodeOrderStatusInvalid, "status is invalid")
)

// ParseStatus converts a status name.
func ParseStatus(value string) (Status, error) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(value))); s {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return s, nil
	default:
		return "", ErrStatusInvalid
	}
}

// Active reports whether the order still holds its spots.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Attendee is one person admitted by an order.
type Attendee struct {
	ID      string
	OrderID string
	Name    string
	Email   string
}

// Order reserves Quantity spots of an event for a user.
type Order struct {
	ID         string
	UserID     string
	EventID    string
	Quantity   int
	TotalCents int64
	Status     Status
	Attendees  []Attendee
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Event is filled by read queries.
	Event *event.Event
}

// Total renders TotalCents as a decimal string.
func (o Order) Total() string {
	return event.FormatPrice(o.TotalCents)
}

// AttendeeInput is one attendee of a new order.
type AttendeeInput struct {
	Name  string
	Email string
}

// CreateInput describes a new order.
type CreateInput struct {
	EventID   string
	Attendees []AttendeeInput
	// Quantity, when set, must match len(Attendees).
	Quantity *int
}

// NormalizeCreateInput trims and validates attendees.
func NormalizeCreateInput(input CreateInput) (CreateInput, error) {
	input.EventID = strings.TrimSpace(input.EventID)
	if input.EventID == "" {
		return CreateInput{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "event id is required",
			map[string]string{"Reason": "eventId is required"})
	}
	if len(input.Attendees) == 0 {
		return CreateInput{}, ErrAttendeesEmpty
	}
	if input.Quantity != nil && *input.Quantity != len(input.Attendees) {
		return CreateInput{}, apperrors.WithMetadata(apperrors.CodeOrderQuantityMismatch, "quantity mismatch", map[string]string{
			"Quantity":  strconv.Itoa(*input.Quantity),
			"Attendees": strconv.Itoa(len(input.Attendees)),
		})
	}
	attendees := make([]AttendeeInput, 0, len(input.Attendees))
	for i, a := range input.Attendees {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			return CreateInput{}, attendeeError(i, "name is required")
		}
		if strings.TrimSpace(a.Email) != "" {
			email, err := account.NormalizeEmail(a.Email)
			if err != nil {
				return CreateInput{}, attendeeError(i, "email is invalid")
			}
			a.Email = email
		} else {
			a.Email = ""
		}
		attendees = append(attendees, a)
	}
	input.Attendees = attendees
	return input, nil
}

func attendeeError(index int, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeOrderAttendeeInvalid, "attendee invalid: "+reason, map[string]string{
		"Index":  strconv.Itoa(index + 1),
		"Reason": reason,
	})
}

// Create prices and builds an order for ev. Capacity is enforced by storage.
func Create(input CreateInput, userID string, ev event.Event, now func() time.Time, idGenerator func() (string, error)) (Order, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	normalized, err := NormalizeCreateInput(input)
	if err != nil {
		return Order{}, err
	}
	createdAt := now().UTC()
	if ev.HasStarted(createdAt) {
		return Order{}, ErrEventStarted
	}
	orderID, err := idGenerator()
	if err != nil {
		return Order{}, fmt.Errorf("generate order id: %w", err)
	}
	quantity := len(normalized.Attendees)
	total := ev.PriceCents * int64(quantity)
	status := StatusConfirmed
	if total > 0 {
		status = StatusPending
	}
	attendees := make([]Attendee, 0, quantity)
	for _, a := range normalized.Attendees {
		attendeeID, err := idGenerator()
		if err != nil {
			return Order{}, fmt.Errorf("generate attendee id: %w", err)
		}
		attendees = append(attendees, Attendee{ID: attendeeID, OrderID: orderID, Name: a.Name, Email: a.Email})
	}
	return Order{
		ID:         orderID,
		UserID:     userID,
		EventID:    ev.ID,
		Quantity:   quantity,
		TotalCents: total,
		Status:     status,
		Attendees:  attendees,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}

// Transition validates a status change.
func Transition(from Status, to Status) error {
	if from == StatusCanceled || (from == StatusConfirmed && to == StatusPending) {
		return apperrors.WithMetadata(apperrors.CodeOrderStatusTransitionDenied, "status transition denied", map[string]string{
			"From": string(from),
			"To":   string(to),
		})
	}
	return nil
}

// CanCancel validates a cancellation of an order for ev at now.
func CanCancel(o Order, ev event.Event, now time.Time) error {
	if !o.Status.Active() {
		return apperrors.New(apperrors.CodeNotFound, "no active order")
	}
	if ev.HasStarted(now) {
		return ErrEventStarted
	}
	return nil
}
