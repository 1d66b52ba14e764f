// Package api exposes the engine's command surface over HTTP. It is a
// thin shell: every handler delegates to the registry or the job
// manager and renders their results.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/scantech/scansim/pkg/config"
	"github.com/scantech/scansim/pkg/jobs"
	"github.com/scantech/scansim/pkg/registry"
)

// Server represents the HTTP API server
type Server struct {
	config     *config.Config
	router     *mux.Router
	httpServer *http.Server
	logger     *logrus.Logger
	registry   *registry.Registry
	manager    *jobs.Manager
	ready      bool
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config, reg *registry.Registry, mgr *jobs.Manager, logger *logrus.Logger) *Server {
	s := &Server{
		config:   cfg,
		router:   mux.NewRouter(),
		logger:   logger,
		registry: reg,
		manager:  mgr,
	}

	s.setupRoutes()

	readTimeout, _ := cfg.ParseDuration(cfg.Server.ReadTimeout)
	writeTimeout, _ := cfg.ParseDuration(cfg.Server.WriteTimeout)

	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	return s
}

// setupRoutes configures HTTP routes and middleware
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.requestSizeLimitMiddleware)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/system", s.handleSystemInfo).Methods(http.MethodGet)

	v1.HandleFunc("/scanners", s.handleListScanners).Methods(http.MethodGet)
	v1.HandleFunc("/scanners", s.handleAddScanner).Methods(http.MethodPost)
	v1.HandleFunc("/scanners/discover", s.handleDiscover).Methods(http.MethodPost)
	v1.HandleFunc("/scanners/events", s.handleSimulateEvents).Methods(http.MethodPost)
	v1.HandleFunc("/scanners/{id}", s.handleGetScanner).Methods(http.MethodGet)
	v1.HandleFunc("/scanners/{id}", s.handleRemoveScanner).Methods(http.MethodDelete)
	v1.HandleFunc("/scanners/{id}/capabilities", s.handleCapabilities).Methods(http.MethodGet)
	v1.HandleFunc("/scanners/{id}/test", s.handleTestConnection).Methods(http.MethodPost)
	v1.HandleFunc("/scanners/{id}/reset", s.handleResetStatus).Methods(http.MethodPost)

	v1.HandleFunc("/jobs", s.handleListJobs).Methods(http.MethodGet)
	v1.HandleFunc("/jobs", s.handleCreateJob).Methods(http.MethodPost)
	v1.HandleFunc("/jobs/{id}", s.handleGetJob).Methods(http.MethodGet)
	v1.HandleFunc("/jobs/{id}/start", s.handleStartJob).Methods(http.MethodPost)
	v1.HandleFunc("/jobs/{id}/cancel", s.handleCancelJob).Methods(http.MethodPost)
	v1.HandleFunc("/jobs/{id}/result", s.handleJobResult).Methods(http.MethodGet)
	v1.HandleFunc("/jobs/{id}/watch", s.handleWatchJob).Methods(http.MethodGet)

	v1.HandleFunc("/meta/document-types", s.handleDocumentTypes).Methods(http.MethodGet)
	v1.HandleFunc("/meta/color-modes", s.handleColorModes).Methods(http.MethodGet)
	v1.HandleFunc("/meta/paper-sizes", s.handlePaperSizes).Methods(http.MethodGet)
	v1.HandleFunc("/meta/output-formats", s.handleOutputFormats).Methods(http.MethodGet)
	v1.HandleFunc("/meta/scanner-types", s.handleScannerTypes).Methods(http.MethodGet)
	v1.HandleFunc("/meta/default-settings", s.handleDefaultSettings).Methods(http.MethodGet)

	v1.HandleFunc("/output/open", s.handleOpenOutput).Methods(http.MethodPost)
	v1.HandleFunc("/output/preview", s.handlePreviewFile).Methods(http.MethodPost)

	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.handleReadiness).Methods(http.MethodGet)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port": s.config.Server.Port,
	}).Info("Starting HTTP server")

	s.ready = true

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	s.ready = false

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// SetReady sets the readiness status
func (s *Server) SetReady(ready bool) {
	s.ready = ready
}

// Router exposes the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// handleHealth returns the health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// handleReadiness returns the readiness status
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !s.ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// loggingMiddleware logs all HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote_addr": r.RemoteAddr,
			"status_code": rw.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("HTTP request")
	})
}

// requestSizeLimitMiddleware enforces maximum request size
func (s *Server) requestSizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.Server.MaxRequestSize)
		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
