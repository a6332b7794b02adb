// Package server exposes the rendered site, the playground API and the
// daemon's operational endpoints over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/restdoc/internal/history"
	"git.home.luguber.info/inful/restdoc/internal/metrics"
	"git.home.luguber.info/inful/restdoc/internal/version"
)

// Status reports the daemon's build state for /api/status.
type Status struct {
	State     string     `json:"state"`
	Version   string     `json:"version"`
	SiteHash  string     `json:"site_hash,omitempty"`
	Builds    int        `json:"builds"`
	BuiltAt   *time.Time `json:"built_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// Server is the serve-mode HTTP server.
type Server struct {
	listen   string
	siteDir  string
	hub      *LiveReloadHub
	recorder *metrics.Recorder
	history  history.Store
	router   chi.Router

	mu     sync.RWMutex
	status Status
}

// New assembles the server. The playground handler and history store are
// optional; their endpoints are only mounted when present.
func New(listen, siteDir string, hub *LiveReloadHub, recorder *metrics.Recorder, hist history.Store, playground http.Handler) *Server {
	s := &Server{
		listen:   listen,
		siteDir:  siteDir,
		hub:      hub,
		recorder: recorder,
		history:  hist,
		status:   Status{State: "starting", Version: version.Version},
	}

	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{}))
	r.Handle("/livereload", hub)

	r.Route("/api", func(api chi.Router) {
		api.Get("/status", s.handleStatus)
		if s.history != nil {
			api.Get("/history", s.handleHistory)
		}
		if playground != nil {
			api.Mount("/", playground)
		}
	})

	r.Handle("/*", http.FileServer(http.Dir(siteDir)))

	s.router = r
	return s
}

// Handler returns the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.listen, "site_dir", s.siteDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.hub.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// RecordBuild updates the status endpoint and broadcasts the new content
// hash to livereload clients.
func (s *Server) RecordBuild(siteHash string, buildErr error) {
	now := time.Now().UTC()
	s.mu.Lock()
	s.status.Builds++
	s.status.BuiltAt = &now
	if buildErr != nil {
		s.status.State = "degraded"
		s.status.LastError = buildErr.Error()
	} else {
		s.status.State = "ok"
		s.status.LastError = ""
		s.status.SiteHash = siteHash
	}
	s.mu.Unlock()

	if buildErr == nil {
		s.hub.Broadcast(siteHash)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	st := s.status
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}

	if runID := r.URL.Query().Get("run_id"); runID != "" {
		events, err := s.history.ByRunID(r.Context(), runID)
		if err != nil {
			slog.Error("history by run id", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	events, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("recent history", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// countRequests records per-route request counts with the final status code.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &codeWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(cw, r)

		route := "static"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" && p != "/*" {
				route = p
			}
		}
		s.recorder.CountRequest(route, strconv.Itoa(cw.code))
	})
}

type codeWriter struct {
	http.ResponseWriter
	code int
}

func (w *codeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush passes SSE flushes through to the underlying writer.
func (w *codeWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
