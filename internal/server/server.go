// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the screening service over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/meshintel/partlens/internal/legacy"
	"github.com/meshintel/partlens/internal/screener"
	"github.com/meshintel/partlens/pkg/types"
)

// Server is the HTTP front end for the screening API.
type Server struct {
	service   *screener.Service
	simulator *legacy.Simulator
	cfg       types.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(service *screener.Service, simulator *legacy.Simulator, cfg types.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		service:   service,
		simulator: simulator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	// The upstream call itself is bounded at 45s; leave headroom for the
	// session follow-up.
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Post("/api/v1/ip-screener/analyze", s.handleLegacyAnalyze)
	r.Get("/api/v1/status", s.handleStatus)
	r.Post("/api/v1/cache/clear", s.handleCacheClear)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
