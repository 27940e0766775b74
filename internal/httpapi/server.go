// Package httpapi serves the live simulation over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/san-kum/climsim/internal/chart"
	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/sim"
)

// Controller is the running simulation. *sim.Runner implements it.
type Controller interface {
	Update(ctx context.Context, p climate.Partial) error
	Reset(ctx context.Context) error
	Latest() sim.Sample
}

// Server exposes health, metrics and simulation routes.
type Server struct {
	httpServer *http.Server
	ctrl       Controller
	charts     map[string]*chart.Chart
	logger     *zap.SugaredLogger
}

// NewServer creates an HTTP server. charts are served by name from
// /api/history; gatherer backs /metrics.
func NewServer(addr string, ctrl Controller, charts map[string]*chart.Chart, gatherer prometheus.Gatherer, logger *zap.SugaredLogger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		ctrl:   ctrl,
		charts: charts,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("POST /api/params", s.handleParams)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Infow("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Run serves until ctx is done, then shuts down within grace.
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	s.logger.Infow("http server stopping")
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newState(s.ctrl.Latest()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]map[string][]chart.Point, len(s.charts))
	if name := r.URL.Query().Get("chart"); name != "" {
		c, ok := s.charts[name]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("unknown chart %q", name))
			return
		}
		out[name] = c.Window()
	} else {
		for name, c := range s.charts {
			out[name] = c.Window()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	var p climate.Partial
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode params: %w", err))
		return
	}
	if p.Empty() {
		writeError(w, http.StatusBadRequest, errors.New("no parameters given"))
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.ctrl.Update(ctx, p); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.logger.Debugw("params queued", "update", p)
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "queued", "params": p})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.ctrl.Reset(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client gone
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
