// Package event models events, their addresses and ticket prices.
package event

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/id"
)

var (
	// ErrTitleEmpty indicates a missing title.
	ErrTitleEmpty = apperrors.New(apperrors.CodeEventTitleEmpty, "title is required")
	// ErrDescriptionEmpty indicates a missing description.
	ErrDescriptionEmpty = apperrors.New(apperrors.CodeEventDescriptionEmpty, "description is required")
	// ErrDateInvalid indicates an unparseable or missing date.
	ErrDateInvalid = apperrors.New(apperrors.CodeEventDateInvalid, "date is invalid")
	// ErrCapacityInvalid indicates a max attendee count below one.
	ErrCapacityInvalid = apperrors.New(apperrors.CodeEventCapacityInvalid, "max attendees must be at least 1")
	// ErrNotOwner indicates a write by someone other than the creator or an admin.
	ErrNotOwner = apperrors.New(apperrors.CodeEventNotOwner, "only the event owner can do this")
)

// Creator is the public projection of an event's owner.
type Creator struct {
	Name  string
	Email string
}

// Event is a scheduled happening users can register for.
type Event struct {
	ID          string
	CreatorID   string
	Title       string
	Description string
	Date        time.Time
	Location    string
	// MaxAttendees is nil for unlimited capacity.
	MaxAttendees *int
	PriceCents   int64
	ImageURL     string
	Address      Address
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Read-model fields filled by storage queries.
	Creator         Creator
	RegisteredCount int
}

// Price renders PriceCents as a decimal string.
func (e Event) Price() string {
	return FormatPrice(e.PriceCents)
}

// IsFree reports whether registration costs nothing.
func (e Event) IsFree() bool {
	return e.PriceCents == 0
}

// HasStarted reports whether the event date is at or before now.
func (e Event) HasStarted(now time.Time) bool {
	return !e.Date.After(now)
}

// Available returns the remaining spots and whether capacity is bounded.
func (e Event) Available() (int, bool) {
	if e.MaxAttendees == nil {
		return 0, false
	}
	remaining := *e.MaxAttendees - e.RegisteredCount
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// CanManage reports whether userID may edit, delete or inspect attendees.
func (e Event) CanManage(userID string, isAdmin bool) bool {
	return isAdmin || (userID != "" && userID == e.CreatorID)
}

// CreateInput is the user-supplied part of a new event.
type CreateInput struct {
	Title        string
	Description  string
	Date         string
	Location     string
	MaxAttendees *int
	Price        string
	ImageURL     string
	Address      Address
}

// NormalizeCreateInput trims input and validates every field.
func NormalizeCreateInput(input CreateInput) (CreateInput, time.Time, int64, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return CreateInput{}, time.Time{}, 0, ErrTitleEmpty
	}
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return CreateInput{}, time.Time{}, 0, ErrDescriptionEmpty
	}
	date, err := ParseDate(input.Date)
	if err != nil {
		return CreateInput{}, time.Time{}, 0, err
	}
	if input.MaxAttendees != nil && *input.MaxAttendees < 1 {
		return CreateInput{}, time.Time{}, 0, ErrCapacityInvalid
	}
	price, err := ParsePrice(input.Price)
	if err != nil {
		return CreateInput{}, time.Time{}, 0, err
	}
	address, err := NormalizeAddress(input.Address)
	if err != nil {
		return CreateInput{}, time.Time{}, 0, err
	}
	input.Address = address
	input.Location = strings.TrimSpace(input.Location)
	if input.Location == "" {
		input.Location = address.Summary()
	}
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	return input, date, price, nil
}

// Create builds a new event owned by creatorID.
func Create(input CreateInput, creatorID string, now func() time.Time, idGenerator func() (string, error)) (Event, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return Event{}, apperrors.New(apperrors.CodeUnauthenticated, "creator is required")
	}
	normalized, date, price, err := NormalizeCreateInput(input)
	if err != nil {
		return Event{}, err
	}
	eventID, err := idGenerator()
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}
	createdAt := now().UTC()
	return Event{
		ID:           eventID,
		CreatorID:    creatorID,
		Title:        normalized.Title,
		Description:  normalized.Description,
		Date:         date,
		Location:     normalized.Location,
		MaxAttendees: copyInt(normalized.MaxAttendees),
		PriceCents:   price,
		ImageURL:     normalized.ImageURL,
		Address:      normalized.Address,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// PatchInput holds the fields of a partial update; nil means unchanged.
type PatchInput struct {
	Title        *string
	Description  *string
	Date         *string
	Location     *string
	MaxAttendees *int
	Price        *string
	ImageURL     *string
	Address      *AddressPatch
}

// Empty reports whether the patch changes nothing.
func (p PatchInput) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Location == nil &&
		p.MaxAttendees == nil && p.Price == nil && p.ImageURL == nil && p.Address == nil
}

// ApplyPatch validates patch and returns the updated event. The bool reports
// whether address fields that drive geocoding changed.
func ApplyPatch(current Event, patch PatchInput, now func() time.Time) (Event, bool, error) {
	if now == nil {
		now = time.Now
	}
	next := current
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
		if next.Title == "" {
			return Event{}, false, ErrTitleEmpty
		}
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
		if next.Description == "" {
			return Event{}, false, ErrDescriptionEmpty
		}
	}
	if patch.Date != nil {
		date, err := ParseDate(*patch.Date)
		if err != nil {
			return Event{}, false, err
		}
		next.Date = date
	}
	if patch.Location != nil {
		next.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.MaxAttendees != nil {
		if *patch.MaxAttendees < 1 {
			return Event{}, false, ErrCapacityInvalid
		}
		next.MaxAttendees = copyInt(patch.MaxAttendees)
	}
	if patch.Price != nil {
		price, err := ParsePrice(*patch.Price)
		if err != nil {
			return Event{}, false, err
		}
		next.PriceCents = price
	}
	if patch.ImageURL != nil {
		next.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	relocated := false
	if patch.Address != nil {
		merged, err := NormalizeAddress(patch.Address.Apply(current.Address))
		if err != nil {
			return Event{}, false, err
		}
		relocated = !merged.SamePlace(current.Address)
		if relocated && patch.Address.Lat == nil && patch.Address.Lng == nil {
			merged.Lat, merged.Lng = nil, nil
		}
		next.Address = merged
	}
	next.UpdatedAt = now().UTC()
	return next, relocated, nil
}

// ParseDate accepts RFC 3339, HTML datetime-local and plain dates (UTC).
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrDateInvalid
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, ErrDateInvalid
}

func copyInt(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
