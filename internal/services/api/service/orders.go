package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/order"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

// CreateOrder registers attendees for an event, reserving capacity.
func (s *Service) CreateOrder(ctx context.Context, actor Actor, input order.CreateInput) (order.Order, error) {
	if err := actor.require(); err != nil {
		return order.Order{}, err
	}
	input, err := order.NormalizeCreateInput(input)
	if err != nil {
		return order.Order{}, err
	}
	ev, err := s.GetEvent(ctx, input.EventID)
	if err != nil {
		return order.Order{}, err
	}
	o, err := order.Create(input, actor.UserID, ev, s.clock, s.newID)
	if err != nil {
		return order.Order{}, err
	}
	if err := s.store.PutOrder(ctx, o); err != nil {
		var capErr *storage.CapacityError
		switch {
		case errors.As(err, &capErr):
			return order.Order{}, apperrors.WithMetadata(apperrors.CodeOrderCapacityExceeded, "not enough spots left",
				map[string]string{"Available": strconv.Itoa(capErr.Available())})
		case errors.Is(err, storage.ErrAlreadyExists):
			return order.Order{}, order.ErrAlreadyRegistered
		}
		return order.Order{}, notFoundOr("create order", err)
	}
	ev.RegisteredCount += o.Quantity
	o.Event = &ev
	return o, nil
}

// GetOrderForEvent returns the actor's active order for an event.
func (s *Service) GetOrderForEvent(ctx context.Context, actor Actor, eventID string) (order.Order, error) {
	if err := actor.require(); err != nil {
		return order.Order{}, err
	}
	o, err := s.store.GetActiveOrder(ctx, actor.UserID, strings.TrimSpace(eventID))
	if err != nil {
		return order.Order{}, notFoundOr("get order", err)
	}
	return o, nil
}

// ListMyOrders returns the actor's orders, newest first.
func (s *Service) ListMyOrders(ctx context.Context, actor Actor) ([]order.Order, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	orders, err := s.store.ListUserOrders(ctx, actor.UserID)
	if err != nil {
		return nil, internal("list orders", err)
	}
	return orders, nil
}

// CancelOrder cancels the actor's active order, releasing its spots.
func (s *Service) CancelOrder(ctx context.Context, actor Actor, eventID string) (order.Order, error) {
	o, err := s.GetOrderForEvent(ctx, actor, eventID)
	if err != nil {
		return order.Order{}, err
	}
	if err := order.CanCancel(o, *o.Event, s.now()); err != nil {
		return order.Order{}, err
	}
	return s.setStatus(ctx, o, order.StatusCanceled)
}

// ChangeOrderStatus moves the actor's active order to status.
func (s *Service) ChangeOrderStatus(ctx context.Context, actor Actor, eventID string, status string) (order.Order, error) {
	next, err := order.ParseStatus(status)
	if err != nil {
		return order.Order{}, err
	}
	o, err := s.GetOrderForEvent(ctx, actor, eventID)
	if err != nil {
		return order.Order{}, err
	}
	if err := order.Transition(o.Status, next); err != nil {
		return order.Order{}, err
	}
	if o.Status == next {
		return o, nil
	}
	return s.setStatus(ctx, o, next)
}

func (s *Service) setStatus(ctx context.Context, o order.Order, status order.Status) (order.Order, error) {
	updatedAt := s.now()
	if err := s.store.UpdateOrderStatus(ctx, o.ID, status, updatedAt); err != nil {
		return order.Order{}, notFoundOr("update order", err)
	}
	if status == order.StatusCanceled && o.Event != nil {
		o.Event.RegisteredCount -= o.Quantity
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return o, nil
}
