package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"auditdesk/internal/audit"
	"auditdesk/internal/ports"
)

// Config holds HTTP server configuration.
type Config struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server exposes the audit engine over HTTP. Routing, auth and the other
// dashboard resources live elsewhere; this surface only carries the two
// audit operations plus a health probe.
type Server struct {
	cfg    Config
	logger ports.Logger
	audit  *audit.Service
	http   *http.Server
}

// New creates a new HTTP server wrapping the audit service.
func New(cfg Config, logger ports.Logger, auditSvc *audit.Service) (*Server, error) {
	if logger == nil || auditSvc == nil {
		return nil, fmt.Errorf("missing required dependencies for HTTP server")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8085"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	s := &Server{cfg: cfg, logger: logger, audit: auditSvc}
	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ping", s.handlePing).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/audit", s.handleGetAudit).Methods(http.MethodGet)
	api.HandleFunc("/audit", s.handleSaveAudit).Methods(http.MethodPut)
	return r
}

// Start runs the server until ListenAndServe returns.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "HTTP server listening", map[string]interface{}{"addr": s.cfg.ListenAddr})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
