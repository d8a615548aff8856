package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/event"
	"github.com/louisbranch/xplorehub/internal/services/api/media"
	"github.com/louisbranch/xplorehub/internal/services/api/service"
)

// Service is the part of the API service layer the runner drives.
type Service interface {
	ProvisionUser(ctx context.Context, input account.RegisterInput) (account.User, bool, error)
	ListMyEvents(ctx context.Context, actor service.Actor) ([]event.Event, error)
	CreateEvent(ctx context.Context, actor service.Actor, input event.CreateInput, image *media.File) (event.Event, error)
}

// Config wires a Runner.
type Config struct {
	Service Service
	Logger  *zap.Logger
	Now     func() time.Time
}

// Report counts what one run did.
type Report struct {
	UsersCreated  int
	UsersSkipped  int
	EventsCreated int
	EventsSkipped int
}

func (r Report) String() string {
	return fmt.Sprintf("users: %d created, %d skipped; events: %d created, %d skipped",
		r.UsersCreated, r.UsersSkipped, r.EventsCreated, r.EventsSkipped)
}

// Runner applies fixtures.
type Runner struct {
	svc    Service
	logger *zap.Logger
	now    func() time.Time
}

// New builds a Runner from cfg.
func New(cfg Config) (*Runner, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("service is required")
	}
	r := &Runner{svc: cfg.Service, logger: cfg.Logger, now: cfg.Now}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// Apply creates every missing user and event in fx. It stops at the first
// failure; whatever was created before stays and is skipped on the next run.
func (r *Runner) Apply(ctx context.Context, fx Fixtures) (Report, error) {
	if err := ValidateFixtures(fx); err != nil {
		return Report{}, err
	}

	var report Report
	owners := make(map[string]service.Actor, len(fx.Users))
	for _, fixture := range fx.Users {
		user, created, err := r.svc.ProvisionUser(ctx, account.RegisterInput{
			Name:     fixture.Name,
			Email:    fixture.Email,
			Password: fixture.Password,
			Role:     fixture.Role,
		})
		if err != nil {
			return report, fmt.Errorf("user %s: %w", fixture.Email, err)
		}
		if created {
			report.UsersCreated++
			r.logger.Info("user created", zap.String("email", user.Email), zap.String("role", string(user.Role)))
		} else {
			report.UsersSkipped++
			r.logger.Debug("user exists", zap.String("email", user.Email))
		}
		owners[normalizeKey(fixture.Email)] = service.Actor{UserID: user.ID, Role: user.Role}
	}

	existing := make(map[string]map[string]struct{}, len(owners))
	start := r.now().UTC().Truncate(time.Minute)
	for _, fixture := range fx.Events {
		ownerKey := normalizeKey(fixture.Owner)
		owner := owners[ownerKey]
		titles, ok := existing[ownerKey]
		if !ok {
			events, err := r.svc.ListMyEvents(ctx, owner)
			if err != nil {
				return report, fmt.Errorf("list events of %s: %w", fixture.Owner, err)
			}
			titles = make(map[string]struct{}, len(events))
			for _, ev := range events {
				titles[normalizeKey(ev.Title)] = struct{}{}
			}
			existing[ownerKey] = titles
		}
		if _, ok := titles[normalizeKey(fixture.Title)]; ok {
			report.EventsSkipped++
			r.logger.Debug("event exists", zap.String("title", fixture.Title))
			continue
		}

		created, err := r.svc.CreateEvent(ctx, owner, eventInput(fixture, start), nil)
		if err != nil {
			return report, fmt.Errorf("event %q: %w", fixture.Title, err)
		}
		titles[normalizeKey(created.Title)] = struct{}{}
		report.EventsCreated++
		r.logger.Info("event created", zap.String("id", created.ID), zap.String("title", created.Title))
	}
	return report, nil
}

func eventInput(fx EventFixture, start time.Time) event.CreateInput {
	return event.CreateInput{
		Title:        fx.Title,
		Description:  fx.Description,
		Date:         start.Add(time.Duration(fx.StartsIn)).Format(time.RFC3339),
		Location:     fx.Location,
		MaxAttendees: fx.Capacity,
		Price:        fx.Price,
		ImageURL:     fx.ImageURL,
		Address: event.Address{
			Street:       fx.Address.Street,
			Number:       fx.Address.Number,
			Neighborhood: fx.Address.Neighborhood,
			City:         fx.Address.City,
			State:        fx.Address.State,
			Country:      fx.Address.Country,
			ZipCode:      fx.Address.ZipCode,
			Lat:          fx.Address.Lat,
			Lng:          fx.Address.Lng,
		},
	}
}
