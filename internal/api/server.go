// Package api is the thin presentation layer over the tracker store and
// the metrics engine: it translates HTTP requests into the store's
// commands and queries and formats the derived figures as JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/pmokit/aitrackd/internal/logger"
	"codeberg.org/pmokit/aitrackd/internal/telemetry"
	"codeberg.org/pmokit/aitrackd/internal/tracker"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type Server struct {
	store     *tracker.Store
	collector telemetry.Collector
	logger    logger.Logger
	mux       *http.ServeMux
	srv       *http.Server
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock injects the clock used for months-in-use and ROI figures.
// Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer wires the presentation layer to one session store.
func NewServer(store *tracker.Store, collector telemetry.Collector, log logger.Logger, opts ...Option) *Server {
	s := &Server{
		store:     store,
		collector: collector,
		logger:    log,
		mux:       http.NewServeMux(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/tools", s.handleTools)
	s.mux.HandleFunc("/api/tools/", s.handleTool)
	s.mux.HandleFunc("/api/summary", s.handleSummary)
	s.mux.HandleFunc("/api/recommendations", s.handleRecommendations)
	s.mux.HandleFunc("/api/best-practices", s.handleBestPractices)
	s.mux.HandleFunc("/api/categories", s.handleCategories)
	s.mux.HandleFunc("/api/roi", s.handleROI)
}

// Handler exposes the routed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	s.logger.Info().Str("addr", addr).Msg("Dashboard API listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.srv.Shutdown(shutdownCtx)
	}
}
