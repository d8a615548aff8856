// Package storage defines persistence contracts for the events API.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/event"
	"github.com/louisbranch/xplorehub/internal/services/api/order"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrCapacityExceeded indicates an event cannot hold the requested spots.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrInvalidPageToken indicates a page token this store did not issue.
	ErrInvalidPageToken = errors.New("invalid page token")
)

// CapacityError reports the reservation state that rejected a write.
// It matches ErrCapacityExceeded with errors.Is.
type CapacityError struct {
	Capacity   int
	Registered int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %d of %d spots taken", e.Registered, e.Capacity)
}

// Is matches ErrCapacityExceeded.
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// Available returns the number of spots still open.
func (e *CapacityError) Available() int {
	return max(e.Capacity-e.Registered, 0)
}

// UserStore persists accounts.
type UserStore interface {
	// PutUser inserts a user; a taken email yields ErrAlreadyExists.
	PutUser(ctx context.Context, user account.User) error
	GetUser(ctx context.Context, userID string) (account.User, error)
	GetUserByEmail(ctx context.Context, email string) (account.User, error)
}

// EventFilter narrows event listings. Zero values do not filter.
type EventFilter struct {
	City      string
	CreatorID string
	// StartsAfter keeps events dated at or after this instant.
	StartsAfter time.Time
	PageSize    int
	PageToken   string
}

// EventPage stores one page of events.
type EventPage struct {
	Events        []event.Event
	NextPageToken string
}

// EventStore persists events. Reads fill Creator and RegisteredCount.
type EventStore interface {
	PutEvent(ctx context.Context, ev event.Event) error
	GetEvent(ctx context.Context, eventID string) (event.Event, error)
	ListEvents(ctx context.Context, filter EventFilter) (EventPage, error)
	// UpdateEvent replaces an event. Lowering MaxAttendees below the
	// reserved count yields a *CapacityError.
	UpdateEvent(ctx context.Context, ev event.Event) error
	// DeleteEvent removes an event with its orders and attendees.
	DeleteEvent(ctx context.Context, eventID string) error
	// ListEventAttendees returns attendees of active orders, oldest order first.
	ListEventAttendees(ctx context.Context, eventID string) ([]order.Attendee, error)
}

// OrderStore persists orders and attendees.
type OrderStore interface {
	// PutOrder reserves spots atomically. A full event yields a *CapacityError,
	// a second active order for the same user and event ErrAlreadyExists,
	// and a missing event ErrNotFound.
	PutOrder(ctx context.Context, o order.Order) error
	// GetActiveOrder returns the user's non-canceled order for an event with
	// its event and attendees.
	GetActiveOrder(ctx context.Context, userID string, eventID string) (order.Order, error)
	// ListUserOrders returns the user's orders, newest first.
	ListUserOrders(ctx context.Context, userID string) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status order.Status, updatedAt time.Time) error
}

// Store is the full persistence surface of the API.
type Store interface {
	UserStore
	EventStore
	OrderStore
	Close() error
}
