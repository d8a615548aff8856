// Package app wires the web frontend runtime and HTTP lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/xplorehub/internal/platform/timeouts"
	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/shared/httpx"
	"github.com/louisbranch/xplorehub/internal/services/web/module"
	"github.com/louisbranch/xplorehub/internal/services/web/module/auth"
	"github.com/louisbranch/xplorehub/internal/services/web/module/discovery"
	"github.com/louisbranch/xplorehub/internal/services/web/module/events"
	"github.com/louisbranch/xplorehub/internal/services/web/module/myevents"
	"github.com/louisbranch/xplorehub/internal/services/web/module/registrations"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/pagerender"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/xplorehub/internal/services/web/platform/weberror"
	"github.com/louisbranch/xplorehub/internal/services/web/routepath"
)

// Config captures the web server inputs.
type Config struct {
	Addr                string
	APIURL              string
	TrustForwardedProto bool
	Logger              *zap.Logger
	// HTTPClient overrides the API transport, for tests.
	HTTPClient *http.Client
	Now        func() time.Time
}

// NewHandler composes every feature module behind the shared middleware.
func NewHandler(cfg Config, api *client.Client) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := requestmeta.Policy{TrustForwardedProto: cfg.TrustForwardedProto}
	renderer := pagerender.Renderer{Policy: policy}
	deps := module.Dependencies{API: api, Renderer: renderer, Logger: logger, Now: cfg.Now}

	root, err := Compose(ComposeInput{
		PublicModules: []module.Module{
			healthModule{},
			events.New(deps),
			auth.New(deps),
			discovery.New(deps),
		},
		ProtectedModules: []module.Module{
			myevents.New(deps),
			registrations.New(deps),
		},
		Policy: policy,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			weberror.NotFound(w, r, renderer)
		}),
	})
	if err != nil {
		return nil, err
	}
	return httpx.Chain(root,
		httpx.RequestID(),
		httpx.RecoverPanic(logger),
		httpx.AccessLog(logger),
		httpx.Compress(),
		persistLanguage(),
		resolveSession(api, policy, logger),
	), nil
}

type healthModule struct{}

func (healthModule) ID() string { return "health" }

func (healthModule) Routes() []module.Route {
	return []module.Route{{
		Pattern: "GET " + routepath.Health,
		Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("ok"))
		},
	}}
}

// Server hosts the web frontend.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the API client and listens on cfg.Addr.
func New(ctx context.Context, cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
		cfg.Logger = logger
	}
	var opts []client.Option
	if cfg.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(cfg.HTTPClient))
	}
	api, err := client.New(cfg.APIURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	handler, err := NewHandler(cfg, api)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	httpServer := &http.Server{
		Handler:           otelhttp.NewHandler(handler, "web"),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return &Server{listener: listener, httpServer: httpServer, logger: logger}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a web server until context cancellation.
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
	defer s.Close()

	s.logger.Info("web listening", zap.String("addr", s.Addr()))
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
}
