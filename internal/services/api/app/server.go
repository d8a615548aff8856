// Package app wires the API runtime and HTTP lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/xplorehub/internal/platform/timeouts"
	"github.com/louisbranch/xplorehub/internal/services/api/rest"
	"github.com/louisbranch/xplorehub/internal/services/api/storage/sqlite"
)

// Server hosts the REST API and its storage lifecycle.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *sqlite.Store
	logger     *zap.Logger
}

// New opens storage, wires services and listens on cfg.Addr.
func New(ctx context.Context, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
		cfg.Logger = logger
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open api store: %w", err)
	}
	deps, err := NewDependencies(ctx, cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	handler := rest.NewHandler(rest.Config{
		Service:  deps.Service,
		Geocoder: deps.Geocoder,
		Logger:   logger,
		MediaDir: deps.MediaDir,
	})
	httpServer := &http.Server{
		Handler:           otelhttp.NewHandler(handler, "api"),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return &Server{listener: listener, httpServer: httpServer, store: store, logger: logger}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an API server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve handles requests until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	defer s.Close()

	s.logger.Info("api listening", zap.String("addr", s.Addr()))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close api store", zap.Error(err))
		}
		s.store = nil
	}
}
