// Package server exposes the dashboard views over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	goNexus "github.com/MrEthical07/goNexus"
	"github.com/MrEthical07/goNexus/dashboard"
	"github.com/MrEthical07/goNexus/internal/logging"
	"github.com/MrEthical07/goNexus/internal/respond"
	"github.com/MrEthical07/goNexus/inventory"
	"github.com/MrEthical07/goNexus/members"
	"github.com/MrEthical07/goNexus/metrics/export/prometheus"
	"github.com/MrEthical07/goNexus/middleware"
	"github.com/MrEthical07/goNexus/permission"
)

// Server is the Nexus HTTP API.
type Server struct {
	router    chi.Router
	engine    *goNexus.Engine
	logger    *slog.Logger
	startTime time.Time

	catalog   *inventory.Catalog
	directory *members.Directory
	overview  *dashboard.Builder
	metrics   http.Handler
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithCatalog replaces the seeded product catalog.
func WithCatalog(c *inventory.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithDirectory replaces the seeded member directory.
func WithDirectory(d *members.Directory) Option {
	return func(s *Server) {
		s.directory = d
	}
}

// WithMetricsHandler replaces the /metrics handler.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// New creates a Server with all routes registered.
func New(engine *goNexus.Engine, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		engine:    engine,
		logger:    logging.Component(logger, "server"),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = inventory.DefaultCatalog()
	}
	if s.directory == nil {
		s.directory = members.DefaultDirectory()
	}
	if s.metrics == nil {
		s.metrics = prometheus.NewPrometheusExporter(engine).Handler()
	}
	s.overview = dashboard.NewBuilder(s.catalog, engine)

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	g := s.engine.Guard()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(respond.WithRequestID)
	r.Use(clientContext)
	r.Use(loggingMiddleware(s.logger))

	// public
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.metrics.ServeHTTP)
	r.Get(s.loginPath(), s.handleLoginView)
	r.Post(s.loginPath(), s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get(s.unauthorizedPath(), s.handleUnauthorized)
	r.Get("/session", s.handleSession)

	r.With(middleware.RequireAuthenticated(g)).Get("/navigation", s.handleNavigation)

	// everything the route table names
	r.Group(func(r chi.Router) {
		r.Use(middleware.GuardTable(g, s.engine.Routes()))

		r.Get("/", s.handleDashboard)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Get("/{id}", s.handleGetProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(s.engine.Roles(), permission.InventoryWrite))
				r.Post("/", s.handleCreateProduct)
				r.Put("/{id}", s.handleUpdateProduct)
				r.Delete("/{id}", s.handleDeleteProduct)
			})
		})
		r.Get("/users", s.handleMembers)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/settings", s.handleSettings)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Redirect(w, r, "/", map[string]string{"reason": "not_found", "path": r.URL.Path})
	})
}

func (s *Server) loginPath() string {
	return s.engine.Config().Routes.LoginPath
}

func (s *Server) unauthorizedPath() string {
	return s.engine.Config().Routes.UnauthorizedPath
}

// Run serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg goNexus.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
