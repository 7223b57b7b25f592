// Package web provides the HTTP server and handlers for the facet dashboard.
package web

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/facetview/internal/config"
	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/source"
	webmw "github.com/JonMunkholm/facetview/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the facet dashboard.
type Server struct {
	cfg      *config.Config
	store    *core.SessionStore
	loader   *source.Loader
	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, store *core.SessionStore, loader *source.Loader) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		loader: loader,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if timeout := s.cfg.Server.WriteTimeout; timeout > 0 {
		s.router.Use(middleware.Timeout(timeout))
	}
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/healthz", s.handleHealth)

	// Pages and form posts
	s.router.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleDashboard)
		r.Post("/filters/{column}", s.handleFilterForm)
		r.Post("/clear", s.handleClearForm)
		r.With(s.switchLimit()...).Post("/dataset", s.handleDatasetForm)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(webmw.APIKeyAuth(&s.cfg.Security))
		r.Use(s.withSession)

		r.Get("/datasets", s.handleListDatasets)
		r.With(s.switchLimit()...).Post("/datasets/{datasetID}", s.handleSwitchDataset)

		r.Get("/state", s.handleState)
		r.Put("/filters/{column}", s.handleApplyFilter)
		r.Delete("/filters", s.handleClearFilters)
		r.Get("/options/{column}", s.handleOptions)
		r.Get("/rows", s.handleRows)
		r.Get("/export", s.handleExport)
	})
}

// switchLimit returns the extra middleware for dataset switches, which
// trigger loads and are limited separately.
func (s *Server) switchLimit() []func(http.Handler) http.Handler {
	if !s.cfg.Rate.Enabled || s.cfg.Rate.SwitchLimit <= 0 {
		return nil
	}
	return []func(http.Handler) http.Handler{s.newLimiter(s.cfg.Rate.SwitchLimit).middleware}
}

func (s *Server) newLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.Close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}
