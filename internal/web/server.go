// Package web provides the ops HTTP server: health, metrics and a synchronous
// validate endpoint for checking a file before it is submitted.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/regvalidate/internal/config"
	"github.com/JonMunkholm/regvalidate/internal/core"
	"github.com/JonMunkholm/regvalidate/internal/event"
	"github.com/JonMunkholm/regvalidate/internal/web/middleware"
)

// Validator runs the validation pipeline on an uploaded file.
type Validator interface {
	ValidateStream(ctx context.Context, req core.ValidateRequest) (event.Outcome, error)
}

// Options configures optional server collaborators.
type Options struct {
	// Limiter is reported by /healthz when set.
	Limiter *core.RunLimiter

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server is the ops HTTP server.
type Server struct {
	validator Validator
	cfg       config.ServerConfig
	security  config.SecurityConfig
	opts      Options
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a new Server instance.
func NewServer(v Validator, cfg config.ServerConfig, security config.SecurityConfig, opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		validator: v,
		cfg:       cfg,
		security:  security,
		opts:      opts,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.security.APIKeys))
		r.Post("/validate/{subType}", s.handleValidate)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("ops server listening", "addr", s.server.Addr)
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

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Responses are JSON or metrics text, never framed or cached
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status string                 `json:"status"`
	Time   time.Time              `json:"time"`
	Runs   *core.RunLimiterStatus `json:"runs,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Time: time.Now().UTC()}
	if s.opts.Limiter != nil {
		st := s.opts.Limiter.Status()
		resp.Runs = &st
	}
	writeJSON(w, http.StatusOK, resp)
}
