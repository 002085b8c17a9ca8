// Package server owns the HTTP server lifecycle: router construction,
// middleware wiring, routes and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medregistry/search-gateway/config"
	"github.com/medregistry/search-gateway/handlers"
	"github.com/medregistry/search-gateway/health"
	"github.com/medregistry/search-gateway/logging"
	"github.com/medregistry/search-gateway/metrics"
)

// Server is the gateway HTTP server.
type Server struct {
	server *http.Server
	router chi.Router
	config *config.Config
}

// New builds the server with all middleware and routes configured.
func New(cfg *config.Config, handler *handlers.Handler, checker *health.Checker) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		config: cfg,
	}

	s.setupMiddleware()
	s.setupRoutes(handler, checker)

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.Middleware(logging.Default.Logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(NewRateLimiter().Middleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes(handler *handlers.Handler, checker *health.Checker) {
	s.router.Get("/api/v1/drugs/search", handler.SearchDrugs)
	s.router.Get("/health", checker.Handler())
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start begins serving. It blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	logging.Info("Starting server", "addr", s.server.Addr, "env", s.config.Env)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, forcing a close when the context
// expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if closeErr := s.server.Close(); closeErr != nil {
			logging.Error("Server close error", "error", closeErr)
		}
		return err
	}

	logging.Info("Server exited gracefully")
	return nil
}
