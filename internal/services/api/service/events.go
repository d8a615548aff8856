package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/event"
	"github.com/louisbranch/xplorehub/internal/services/api/geocoding"
	"github.com/louisbranch/xplorehub/internal/services/api/media"
	"github.com/louisbranch/xplorehub/internal/services/api/order"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

const (
	defaultEventsPageSize = 20
	maxEventsPageSize     = 100
)

// ListEventsInput filters the public event listing.
type ListEventsInput struct {
	City      string
	Upcoming  bool
	PageSize  int
	PageToken string
}

func addressQuery(a event.Address) geocoding.AddressQuery {
	return geocoding.AddressQuery{Street: a.Street, City: a.City, State: a.State, Country: a.Country}
}

// CreateEvent creates an event owned by actor, uploading image when present.
func (s *Service) CreateEvent(ctx context.Context, actor Actor, input event.CreateInput, image *media.File) (event.Event, error) {
	if err := actor.require(); err != nil {
		return event.Event{}, err
	}
	ev, err := event.Create(input, actor.UserID, s.clock, s.newID)
	if err != nil {
		return event.Event{}, err
	}
	if image != nil {
		url, err := s.uploader.Upload(ctx, image)
		if err != nil {
			return event.Event{}, err
		}
		ev.ImageURL = url
	}
	return s.putEvent(ctx, ev)
}

func (s *Service) putEvent(ctx context.Context, ev event.Event) (event.Event, error) {
	s.geocodeInto(ctx, &ev.Address.Lat, &ev.Address.Lng, addressQuery(ev.Address))
	if err := s.store.PutEvent(ctx, ev); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return event.Event{}, apperrors.New(apperrors.CodeUnauthenticated, "account no longer exists")
		}
		return event.Event{}, internal("create event", err)
	}
	return s.GetEvent(ctx, ev.ID)
}

// ListEvents returns one page of events ordered by date.
func (s *Service) ListEvents(ctx context.Context, input ListEventsInput) (storage.EventPage, error) {
	pageSize := input.PageSize
	switch {
	case pageSize <= 0:
		pageSize = defaultEventsPageSize
	case pageSize > maxEventsPageSize:
		pageSize = maxEventsPageSize
	}
	filter := storage.EventFilter{
		City:      input.City,
		PageSize:  pageSize,
		PageToken: input.PageToken,
	}
	if input.Upcoming {
		filter.StartsAfter = s.now()
	}
	page, err := s.store.ListEvents(ctx, filter)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidPageToken) {
			return storage.EventPage{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "invalid page token",
				map[string]string{"Reason": "page_token is invalid"})
		}
		return storage.EventPage{}, internal("list events", err)
	}
	return page, nil
}

// GetEvent returns one event.
func (s *Service) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	ev, err := s.store.GetEvent(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return event.Event{}, notFoundOr("get event", err)
	}
	return ev, nil
}

// ListMyEvents returns every event created by actor.
func (s *Service) ListMyEvents(ctx context.Context, actor Actor) ([]event.Event, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	return s.listAll(ctx, storage.EventFilter{CreatorID: actor.UserID})
}

func (s *Service) listAll(ctx context.Context, filter storage.EventFilter) ([]event.Event, error) {
	filter.PageSize = maxEventsPageSize
	events := []event.Event{}
	for {
		page, err := s.store.ListEvents(ctx, filter)
		if err != nil {
			return nil, internal("list events", err)
		}
		events = append(events, page.Events...)
		if page.NextPageToken == "" {
			return events, nil
		}
		filter.PageToken = page.NextPageToken
	}
}

// ListAttendees returns the attendees of an event to its owner or an admin.
func (s *Service) ListAttendees(ctx context.Context, actor Actor, eventID string) ([]order.Attendee, error) {
	ev, err := s.manageable(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.store.ListEventAttendees(ctx, ev.ID)
	if err != nil {
		return nil, internal("list attendees", err)
	}
	return attendees, nil
}

// UpdateEvent applies a partial update by the owner or an admin.
func (s *Service) UpdateEvent(ctx context.Context, actor Actor, eventID string, patch event.PatchInput, image *media.File) (event.Event, error) {
	current, err := s.manageable(ctx, actor, eventID)
	if err != nil {
		return event.Event{}, err
	}
	if image != nil {
		url, err := s.uploader.Upload(ctx, image)
		if err != nil {
			return event.Event{}, err
		}
		patch.ImageURL = &url
	}
	next, relocated, err := event.ApplyPatch(current, patch, s.clock)
	if err != nil {
		return event.Event{}, err
	}
	if relocated {
		s.geocodeInto(ctx, &next.Address.Lat, &next.Address.Lng, addressQuery(next.Address))
	}
	if err := s.store.UpdateEvent(ctx, next); err != nil {
		var capErr *storage.CapacityError
		if errors.As(err, &capErr) {
			return event.Event{}, apperrors.WithMetadata(apperrors.CodeEventCapacityBelowRegistered,
				"capacity below registered attendees", map[string]string{"Registered": strconv.Itoa(capErr.Registered)})
		}
		return event.Event{}, notFoundOr("update event", err)
	}
	return s.GetEvent(ctx, next.ID)
}

// DeleteEvent removes an event with its orders.
func (s *Service) DeleteEvent(ctx context.Context, actor Actor, eventID string) error {
	ev, err := s.manageable(ctx, actor, eventID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, ev.ID); err != nil {
		return notFoundOr("delete event", err)
	}
	return nil
}

func (s *Service) manageable(ctx context.Context, actor Actor, eventID string) (event.Event, error) {
	if err := actor.require(); err != nil {
		return event.Event{}, err
	}
	ev, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}
	if !ev.CanManage(actor.UserID, actor.IsAdmin()) {
		return event.Event{}, event.ErrNotOwner
	}
	return ev, nil
}
