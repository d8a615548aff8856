// Package service implements the events API use cases on top of storage,
// geocoding, media and AI seeding.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/id"
	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/aiseed"
	"github.com/louisbranch/xplorehub/internal/services/api/authtoken"
	"github.com/louisbranch/xplorehub/internal/services/api/geocoding"
	"github.com/louisbranch/xplorehub/internal/services/api/media"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

// ErrNotFound is returned for missing events and orders.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "not found")

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   account.Role
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == account.RoleAdmin
}

func (a Actor) require() error {
	if a.UserID == "" {
		return apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	return nil
}

// SeedUser owns AI-generated events. It is created on first use.
type SeedUser struct {
	Name  string
	Email string
}

// Config wires a Service. Geocoder, Generator and Uploader are optional.
type Config struct {
	Store       storage.Store
	Tokens      *authtoken.Manager
	Geocoder    geocoding.Geocoder
	Generator   *aiseed.Generator
	Uploader    *media.Uploader
	SeedUser    SeedUser
	Logger      *zap.Logger
	Now         func() time.Time
	IDGenerator func() (string, error)
}

// Service holds the API use cases.
type Service struct {
	store     storage.Store
	tokens    *authtoken.Manager
	geocoder  geocoding.Geocoder
	generator *aiseed.Generator
	uploader  *media.Uploader
	seedUser  SeedUser
	logger    *zap.Logger
	clock     func() time.Time
	newID     func() (string, error)
	seeding   singleflight.Group
}

// New builds a Service from cfg.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	s := &Service{
		store:     cfg.Store,
		tokens:    cfg.Tokens,
		geocoder:  cfg.Geocoder,
		generator: cfg.Generator,
		uploader:  cfg.Uploader,
		seedUser:  cfg.SeedUser,
		logger:    cfg.Logger,
		clock:     cfg.Now,
		newID:     cfg.IDGenerator,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = id.NewID
	}
	if s.seedUser.Email == "" {
		s.seedUser = SeedUser{Name: "XploreHub", Email: "seed@xplorehub.local"}
	}
	return s, nil
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

// internal wraps unexpected storage failures.
func internal(op string, err error) error {
	return apperrors.Wrap(apperrors.CodeUnknown, op, err)
}

func notFoundOr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return internal(op, err)
}

// geocodeInto resolves missing coordinates best-effort.
func (s *Service) geocodeInto(ctx context.Context, lat **float64, lng **float64, query geocoding.AddressQuery) {
	if s.geocoder == nil || (*lat != nil && *lng != nil) {
		return
	}
	coords, err := s.geocoder.Coordinates(ctx, query)
	if err != nil {
		s.logger.Debug("event address not geocoded", zap.String("query", query.Text()), zap.Error(err))
		return
	}
	*lat, *lng = &coords.Lat, &coords.Lng
}
