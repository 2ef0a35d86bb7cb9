// Package server provides the HTTP API for kembar.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kembar/internal/config"
	"github.com/hyperjump/kembar/internal/runner"
	"github.com/hyperjump/kembar/internal/storage"
	"github.com/hyperjump/kembar/internal/validator"
)

// Server is the HTTP server for the kembar API.
type Server struct {
	validator *validator.Uniqueness
	runner    *runner.Runner
	storage   storage.Storage
	config    *config.ServerConfig
	dbPath    string // optional; reported with disk usage in status
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. The runner must use the same
// validator so single-record requests and corpus runs share one cache.
func NewServer(
	v *validator.Uniqueness,
	run *runner.Runner,
	store storage.Storage,
	cfg *config.ServerConfig,
	dbPath string,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		validator: v,
		runner:    run,
		storage:   store,
		config:    cfg,
		dbPath:    dbPath,
		logger:    logger,
	}
}

// Router returns the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/validate", s.handleValidate)
	r.Post("/api/v1/runs", s.handleCreateRun)
	r.Get("/api/v1/runs", s.handleListRuns)
	r.Get("/api/v1/runs/{id}", s.handleGetRun)
	r.Delete("/api/v1/runs/{id}", s.handleDeleteRun)
	r.Get("/api/v1/cache", s.handleCacheStats)
	r.Delete("/api/v1/cache", s.handleClearCache)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
