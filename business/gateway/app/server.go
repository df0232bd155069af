// Package app contains the HTTP and websocket gateway for the scanner.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	arbapp "github.com/arbstream/arbstream/business/arbitrage/app"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/logger"
)

// ScanService is the slice of the scanner the gateway needs.
type ScanService interface {
	Scan(ctx context.Context) (*arbapp.ScanResult, error)
	LastResult() (*arbapp.ScanResult, error)
	Scanning() bool
}

// Config holds gateway server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
}

// Server exposes scan state over REST and live scan events over websocket.
type Server struct {
	cfg     Config
	scanner ScanService
	hub     *Hub
	logger  logger.LoggerInterface
	srv     *http.Server
}

// NewServer creates the gateway server.
func NewServer(cfg Config, scanner ScanService, hub *Hub, log logger.LoggerInterface) *Server {
	s := &Server{
		cfg:     cfg,
		scanner: scanner,
		hub:     hub,
		logger:  log,
	}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router builds the chi router with all gateway routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/opportunities", s.handleOpportunities)
		r.Get("/status", s.handleStatus)
		r.Post("/scan", s.handleScan)
		r.Get("/ws", s.hub.ServeWS)
	})

	return r
}

// Start begins serving in the background. The returned error channel receives
// the terminal ListenAndServe error, if any.
func (s *Server) Start(ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "gateway listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	return errc
}

// Stop shuts the server down gracefully and disconnects websocket clients.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.hub.Stop(); err != nil {
		s.logger.Warn(ctx, "websocket hub stop failed", "error", err)
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOpportunities returns the opportunities from the most recent completed
// scan. Before any scan has finished it returns an empty list, not an error.
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	result, err := s.scanner.LastResult()
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeNoScanResult {
			writeJSON(w, http.StatusOK, map[string]any{
				"opportunities": []any{},
				"count":         0,
			})
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"opportunities": result.Opportunities,
		"count":         len(result.Opportunities),
	})
}

// handleStatus reports the scan loop's state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"last_scan":           nil,
		"opportunities_count": 0,
		"scan_in_progress":    s.scanner.Scanning(),
	}

	if result, err := s.scanner.LastResult(); err == nil {
		status["last_scan"] = result.FinishedAt
		status["opportunities_count"] = len(result.Opportunities)
	}

	writeJSON(w, http.StatusOK, status)
}

// handleScan triggers a scan in the background. When one is already running
// the single-flight token is held and the request is rejected with 409.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.scanner.Scanning() {
		s.writeError(w, r, apperror.Conflict(apperror.CodeScanInProgress, "a scan is already running"))
		return
	}

	go func() {
		if _, err := s.scanner.Scan(context.Background()); err != nil {
			if apperror.GetCode(err) == apperror.CodeScanInProgress {
				return
			}
			s.logger.Error(context.Background(), "triggered scan failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(apperror.CodeInternalError, "gateway", err)
	}
	s.logger.Warn(r.Context(), "request failed",
		"path", r.URL.Path, "code", appErr.Code, "status", appErr.StatusCode)
	writeJSON(w, appErr.StatusCode, appErr.ToResponse())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
