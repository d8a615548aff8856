package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/xplorehub/internal/services/api/event"
	"github.com/louisbranch/xplorehub/internal/services/api/order"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

const eventColumns = `e.id, e.creator_id, e.title, e.description, e.date, e.location,
       e.max_attendees, e.price_cents, e.image_url,
       e.street, e.number, e.neighborhood, e.city, e.state, e.country, e.zip_code, e.lat, e.lng,
       e.created_at, e.updated_at,
       u.name, u.email,
       COALESCE((SELECT SUM(o.quantity) FROM orders o
                  WHERE o.event_id = e.id AND o.status <> 'CANCELED'), 0)`

const eventFrom = ` FROM events e JOIN users u ON u.id = e.creator_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var (
		ev           event.Event
		date         int64
		maxAttendees sql.NullInt64
		lat          sql.NullFloat64
		lng          sql.NullFloat64
		createdAt    int64
		updatedAt    int64
	)
	err := row.Scan(
		&ev.ID,
		&ev.CreatorID,
		&ev.Title,
		&ev.Description,
		&date,
		&ev.Location,
		&maxAttendees,
		&ev.PriceCents,
		&ev.ImageURL,
		&ev.Address.Street,
		&ev.Address.Number,
		&ev.Address.Neighborhood,
		&ev.Address.City,
		&ev.Address.State,
		&ev.Address.Country,
		&ev.Address.ZipCode,
		&lat,
		&lng,
		&createdAt,
		&updatedAt,
		&ev.Creator.Name,
		&ev.Creator.Email,
		&ev.RegisteredCount,
	)
	if err != nil {
		return event.Event{}, err
	}
	ev.Date = fromMillis(date)
	ev.MaxAttendees = intPtr(maxAttendees)
	ev.Address.Lat = floatPtr(lat)
	ev.Address.Lng = floatPtr(lng)
	ev.CreatedAt = fromMillis(createdAt)
	ev.UpdatedAt = fromMillis(updatedAt)
	return ev, nil
}

func cityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// PutEvent inserts one event.
func (s *Store) PutEvent(ctx context.Context, ev event.Event) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(ev.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(ev.CreatorID) == "" {
		return fmt.Errorf("creator id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (
		   id, creator_id, title, description, date, location,
		   max_attendees, price_cents, image_url,
		   street, number, neighborhood, city, city_key, state, country, zip_code, lat, lng,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID,
		ev.CreatorID,
		ev.Title,
		ev.Description,
		toMillis(ev.Date),
		ev.Location,
		nullableInt(ev.MaxAttendees),
		ev.PriceCents,
		ev.ImageURL,
		ev.Address.Street,
		ev.Address.Number,
		ev.Address.Neighborhood,
		ev.Address.City,
		cityKey(ev.Address.City),
		ev.Address.State,
		ev.Address.Country,
		ev.Address.ZipCode,
		nullableFloat(ev.Address.Lat),
		nullableFloat(ev.Address.Lng),
		toMillis(ev.CreatedAt),
		toMillis(ev.UpdatedAt),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return storage.ErrAlreadyExists
		case isForeignKeyViolation(err):
			return storage.ErrNotFound
		}
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// GetEvent returns one event by ID.
func (s *Store) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	if err := s.ready(ctx); err != nil {
		return event.Event{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+eventColumns+eventFrom+` WHERE e.id = ?`, strings.TrimSpace(eventID))
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, storage.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

// ListEvents returns one page of events ordered by date, then ID.
func (s *Store) ListEvents(ctx context.Context, filter storage.EventFilter) (storage.EventPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EventPage{}, err
	}
	if filter.PageSize <= 0 {
		return storage.EventPage{}, fmt.Errorf("page size must be greater than zero")
	}

	var (
		where []string
		args  []any
	)
	if city := cityKey(filter.City); city != "" {
		where = append(where, "e.city_key = ?")
		args = append(args, city)
	}
	if creatorID := strings.TrimSpace(filter.CreatorID); creatorID != "" {
		where = append(where, "e.creator_id = ?")
		args = append(args, creatorID)
	}
	if !filter.StartsAfter.IsZero() {
		where = append(where, "e.date >= ?")
		args = append(args, toMillis(filter.StartsAfter))
	}
	if token := strings.TrimSpace(filter.PageToken); token != "" {
		date, id, err := decodePageToken(token)
		if err != nil {
			return storage.EventPage{}, err
		}
		where = append(where, "(e.date > ? OR (e.date = ? AND e.id > ?))")
		args = append(args, date, date, id)
	}

	query := `SELECT ` + eventColumns + eventFrom
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY e.date ASC, e.id ASC LIMIT ?`
	args = append(args, filter.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	page := storage.EventPage{Events: make([]event.Event, 0, filter.PageSize)}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return storage.EventPage{}, fmt.Errorf("list events: %w", err)
		}
		page.Events = append(page.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	if len(page.Events) > filter.PageSize {
		last := page.Events[filter.PageSize-1]
		page.NextPageToken = encodePageToken(toMillis(last.Date), last.ID)
		page.Events = page.Events[:filter.PageSize]
	}
	return page, nil
}

// UpdateEvent replaces the mutable columns of one event.
func (s *Store) UpdateEvent(ctx context.Context, ev event.Event) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var registered int
		err := tx.QueryRowContext(
			ctx,
			`SELECT COALESCE(SUM(quantity), 0) FROM orders WHERE event_id = ? AND status <> 'CANCELED'`,
			ev.ID,
		).Scan(&registered)
		if err != nil {
			return fmt.Errorf("count reserved spots: %w", err)
		}
		if ev.MaxAttendees != nil && *ev.MaxAttendees < registered {
			return &storage.CapacityError{Capacity: *ev.MaxAttendees, Registered: registered}
		}
		result, err := tx.ExecContext(
			ctx,
			`UPDATE events SET
			   title = ?, description = ?, date = ?, location = ?,
			   max_attendees = ?, price_cents = ?, image_url = ?,
			   street = ?, number = ?, neighborhood = ?, city = ?, city_key = ?,
			   state = ?, country = ?, zip_code = ?, lat = ?, lng = ?,
			   updated_at = ?
			 WHERE id = ?`,
			ev.Title,
			ev.Description,
			toMillis(ev.Date),
			ev.Location,
			nullableInt(ev.MaxAttendees),
			ev.PriceCents,
			ev.ImageURL,
			ev.Address.Street,
			ev.Address.Number,
			ev.Address.Neighborhood,
			ev.Address.City,
			cityKey(ev.Address.City),
			ev.Address.State,
			ev.Address.Country,
			ev.Address.ZipCode,
			nullableFloat(ev.Address.Lat),
			nullableFloat(ev.Address.Lng),
			toMillis(ev.UpdatedAt),
			ev.ID,
		)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		return requireAffected(result, "update event")
	})
}

// DeleteEvent removes one event. Orders and attendees cascade.
func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, strings.TrimSpace(eventID))
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireAffected(result, "delete event")
}

// ListEventAttendees returns attendees of the event's active orders.
func (s *Store) ListEventAttendees(ctx context.Context, eventID string) ([]order.Attendee, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT a.id, a.order_id, a.name, a.email
		   FROM attendees a
		   JOIN orders o ON o.id = a.order_id
		  WHERE o.event_id = ? AND o.status <> 'CANCELED'
		  ORDER BY o.created_at ASC, o.id ASC, a.position ASC`,
		strings.TrimSpace(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list event attendees: %w", err)
	}
	defer rows.Close()

	attendees := []order.Attendee{}
	for rows.Next() {
		var a order.Attendee
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Name, &a.Email); err != nil {
			return nil, fmt.Errorf("list event attendees: %w", err)
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event attendees: %w", err)
	}
	return attendees, nil
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Page tokens are opaque to callers and carry the last (date, id) key.
func encodePageToken(date int64, id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(date, 10) + ":" + id))
}

func decodePageToken(token string) (int64, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, "", storage.ErrInvalidPageToken
	}
	datePart, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return 0, "", storage.ErrInvalidPageToken
	}
	date, err := strconv.ParseInt(datePart, 10, 64)
	if err != nil {
		return 0, "", storage.ErrInvalidPageToken
	}
	return date, id, nil
}
