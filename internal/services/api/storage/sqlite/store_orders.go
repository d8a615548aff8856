package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/xplorehub/internal/services/api/order"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

// PutOrder inserts the order with its attendees in one write transaction.
// An active order of the same user on the event wins over a capacity
// failure.
func (s *Store) PutOrder(ctx context.Context, o order.Order) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("order id is required")
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("order quantity must be greater than zero")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var maxAttendees sql.NullInt64
		err := tx.QueryRowContext(ctx, `SELECT max_attendees FROM events WHERE id = ?`, o.EventID).Scan(&maxAttendees)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("load event capacity: %w", err)
		}
		var active int
		err = tx.QueryRowContext(
			ctx,
			`SELECT COUNT(*) FROM orders WHERE user_id = ? AND event_id = ? AND status <> 'CANCELED'`,
			o.UserID,
			o.EventID,
		).Scan(&active)
		if err != nil {
			return fmt.Errorf("check active order: %w", err)
		}
		if active > 0 {
			return storage.ErrAlreadyExists
		}
		if maxAttendees.Valid {
			var registered int
			err := tx.QueryRowContext(
				ctx,
				`SELECT COALESCE(SUM(quantity), 0) FROM orders WHERE event_id = ? AND status <> 'CANCELED'`,
				o.EventID,
			).Scan(&registered)
			if err != nil {
				return fmt.Errorf("count reserved spots: %w", err)
			}
			if registered+o.Quantity > int(maxAttendees.Int64) {
				return &storage.CapacityError{Capacity: int(maxAttendees.Int64), Registered: registered}
			}
		}

		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO orders (id, user_id, event_id, quantity, total_cents, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID,
			o.UserID,
			o.EventID,
			o.Quantity,
			o.TotalCents,
			string(o.Status),
			toMillis(o.CreatedAt),
			toMillis(o.UpdatedAt),
		)
		if err != nil {
			switch {
			case isUniqueViolation(err):
				return storage.ErrAlreadyExists
			case isForeignKeyViolation(err):
				return storage.ErrNotFound
			}
			return fmt.Errorf("put order: %w", err)
		}
		for i, a := range o.Attendees {
			_, err := tx.ExecContext(
				ctx,
				`INSERT INTO attendees (id, order_id, position, name, email) VALUES (?, ?, ?, ?, ?)`,
				a.ID,
				o.ID,
				i,
				a.Name,
				a.Email,
			)
			if err != nil {
				return fmt.Errorf("put attendee: %w", err)
			}
		}
		return nil
	})
}

func scanOrder(row rowScanner) (order.Order, error) {
	var (
		o         order.Order
		status    string
		createdAt int64
		updatedAt int64
	)
	ev, err := scanEvent(prefixScanner{row: row, prefix: []any{
		&o.ID, &o.UserID, &o.EventID, &o.Quantity, &o.TotalCents, &status, &createdAt, &updatedAt,
	}})
	if err != nil {
		return order.Order{}, err
	}
	o.Status = order.Status(status)
	o.CreatedAt = fromMillis(createdAt)
	o.UpdatedAt = fromMillis(updatedAt)
	o.Event = &ev
	return o, nil
}

// prefixScanner scans leading order columns ahead of the event columns.
type prefixScanner struct {
	row    rowScanner
	prefix []any
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.row.Scan(append(append([]any{}, p.prefix...), dest...)...)
}

// GetActiveOrder returns the user's non-canceled order for one event.
func (s *Store) GetActiveOrder(ctx context.Context, userID string, eventID string) (order.Order, error) {
	if err := s.ready(ctx); err != nil {
		return order.Order{}, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+orderSelect()+`
		  WHERE o.user_id = ? AND o.event_id = ? AND o.status <> 'CANCELED'`,
		strings.TrimSpace(userID),
		strings.TrimSpace(eventID),
	)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return order.Order{}, storage.ErrNotFound
		}
		return order.Order{}, fmt.Errorf("get active order: %w", err)
	}
	attendees, err := s.orderAttendees(ctx, []string{o.ID})
	if err != nil {
		return order.Order{}, err
	}
	o.Attendees = attendees[o.ID]
	return o, nil
}

// ListUserOrders returns every order of the user, newest first.
func (s *Store) ListUserOrders(ctx context.Context, userID string) ([]order.Order, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+orderSelect()+`
		  WHERE o.user_id = ?
		  ORDER BY o.created_at DESC, o.id DESC`,
		strings.TrimSpace(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	ids := []string{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list user orders: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}
	attendees, err := s.orderAttendees(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Attendees = attendees[orders[i].ID]
	}
	return orders, nil
}

// UpdateOrderStatus sets the status of one order.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status, updatedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		toMillis(updatedAt),
		strings.TrimSpace(orderID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("update order status: %w", err)
	}
	return requireAffected(result, "update order status")
}

func orderSelect() string {
	return `o.id, o.user_id, o.event_id, o.quantity, o.total_cents, o.status, o.created_at, o.updated_at, ` +
		eventColumns + `
		   FROM orders o
		   JOIN events e ON e.id = o.event_id
		   JOIN users u ON u.id = e.creator_id`
}

func (s *Store) orderAttendees(ctx context.Context, orderIDs []string) (map[string][]order.Attendee, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(orderIDs)), ", ")
	args := make([]any, 0, len(orderIDs))
	for _, id := range orderIDs {
		args = append(args, id)
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, order_id, name, email FROM attendees
		  WHERE order_id IN (`+placeholders+`)
		  ORDER BY order_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list order attendees: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[string][]order.Attendee, len(orderIDs))
	for rows.Next() {
		var a order.Attendee
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Name, &a.Email); err != nil {
			return nil, fmt.Errorf("list order attendees: %w", err)
		}
		byOrder[a.OrderID] = append(byOrder[a.OrderID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order attendees: %w", err)
	}
	return byOrder, nil
}
