package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/aiseed"
	"github.com/louisbranch/xplorehub/internal/services/api/event"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

const nearbyLimit = 50

// ListModels returns the AI models available for seeding.
func (s *Service) ListModels(ctx context.Context) ([]aiseed.Model, error) {
	if !s.generator.Available() {
		return nil, aiseed.ErrUnavailable
	}
	return s.generator.ListModels(ctx)
}

// SeedRegion generates and stores events for region. Ideas that fail
// validation or storage are logged and skipped.
func (s *Service) SeedRegion(ctx context.Context, region aiseed.Region) ([]event.Event, error) {
	region, err := region.Normalize()
	if err != nil {
		return nil, err
	}
	if !s.generator.Available() {
		return nil, aiseed.ErrUnavailable
	}
	ideas, err := s.generator.Ideas(ctx, region)
	if err != nil {
		return nil, err
	}
	owner, err := s.ensureSeedUser(ctx)
	if err != nil {
		return nil, err
	}

	created := []event.Event{}
	for _, idea := range ideas {
		ev, err := event.Create(s.generator.Draft(idea, region), owner.ID, s.clock, s.newID)
		if err != nil {
			s.logger.Warn("generated event rejected", zap.String("title", idea.Title), zap.Error(err))
			continue
		}
		stored, err := s.putEvent(ctx, ev)
		if err != nil {
			s.logger.Warn("generated event not stored", zap.String("title", idea.Title), zap.Error(err))
			continue
		}
		created = append(created, stored)
	}
	if len(created) == 0 {
		return nil, aiseed.ErrGenerationFailed
	}
	s.logger.Info("region seeded", zap.String("city", region.City), zap.Int("events", len(created)))
	return created, nil
}

// Nearby returns upcoming events in region's city, seeding the region when
// it has none. Concurrent calls for one region share a single seeding run.
func (s *Service) Nearby(ctx context.Context, region aiseed.Region) ([]event.Event, error) {
	region.City = strings.TrimSpace(region.City)
	if region.City == "" {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "city is required",
			map[string]string{"Reason": "city is required"})
	}
	page, err := s.store.ListEvents(ctx, storage.EventFilter{
		City:        region.City,
		StartsAfter: s.now(),
		PageSize:    nearbyLimit,
	})
	if err != nil {
		return nil, internal("nearby events", err)
	}
	if len(page.Events) > 0 {
		return page.Events, nil
	}
	if !s.generator.Available() {
		return []event.Event{}, nil
	}
	normalized, err := region.Normalize()
	if err != nil {
		return []event.Event{}, nil
	}

	result, err, _ := s.seeding.Do(normalized.Key(), func() (any, error) {
		return s.SeedRegion(context.WithoutCancel(ctx), normalized)
	})
	if err != nil {
		s.logger.Error("nearby seeding failed", zap.String("city", normalized.City), zap.Error(err))
		return nil, aiseed.ErrGenerationFailed
	}
	return result.([]event.Event), nil
}

// ensureSeedUser returns the owner of generated events, creating it once.
func (s *Service) ensureSeedUser(ctx context.Context) (account.User, error) {
	user, err := s.store.GetUserByEmail(ctx, s.seedUser.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return account.User{}, internal("load seed user", err)
	}
	password, err := s.newID()
	if err != nil {
		return account.User{}, internal("seed user password", err)
	}
	user, err = account.Create(account.RegisterInput{
		Name:     s.seedUser.Name,
		Email:    s.seedUser.Email,
		Password: password,
	}, false, s.clock, s.newID)
	if err != nil {
		return account.User{}, internal("seed user", err)
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return s.store.GetUserByEmail(ctx, s.seedUser.Email)
		}
		return account.User{}, internal("store seed user", err)
	}
	return user, nil
}
