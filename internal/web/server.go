// Package web provides the HTTP transport over the ingestion core: session
// schema, playback bootstrap, and the NDJSON telemetry frame stream. It
// consumes the core only through its public interfaces and carries no
// parsing logic of its own.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openpaddock/racefeed/internal/config"
	"github.com/openpaddock/racefeed/internal/playback"
	"github.com/openpaddock/racefeed/internal/session"
	"github.com/openpaddock/racefeed/internal/stream"
	"github.com/openpaddock/racefeed/internal/web/middleware"
)

// Server is the HTTP server for the session data service.
type Server struct {
	sessions  *session.Service
	telemetry *stream.Reader
	bootstrap *playback.Service
	router    *chi.Mux
	server    *http.Server
	cfg       *config.Config
}

// NewServer creates a Server wired to the core services. gatherer backs
// the /metrics endpoint; pass nil to disable it.
func NewServer(sessions *session.Service, telemetry *stream.Reader, bootstrap *playback.Service, gatherer prometheus.Gatherer, cfg *config.Config) *Server {
	s := &Server{
		sessions:  sessions,
		telemetry: telemetry,
		bootstrap: bootstrap,
		router:    chi.NewRouter(),
		cfg:       cfg,
	}
	s.setupMiddleware()
	s.setupRoutes(gatherer)
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.Get("/healthz", s.handleHealth)

	if gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{session}/schema", s.handleSchema)
		r.Get("/sessions/{session}/bootstrap", s.handleBootstrap)
		r.Get("/sessions/{session}/frames", s.handleFrames)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout, // 0 keeps frame streams alive
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds baseline security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeError writes a JSON error response and logs it server-side.
func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	slog.WarnContext(ctx, "request failed", "status", status, "error", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json encode error", "error", err)
	}
}
