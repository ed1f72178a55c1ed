// Package server exposes the artifact catalog over HTTP.
//
// The server mounts a chi router with two routes: GET /api/artifacts, the
// query façade over the synchronization store, and GET /healthz. Requests
// carry an id (generated or propagated from X-Request-Id), structured access
// logs go through charmbracelet/log, and panics map to the generic 500
// error shape so upstream failures never leak to clients.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/fixfx/artifactd/pkg/artifacts"
)

const (
	// requestBudget bounds one artifacts request end to end, including a
	// refresh cycle when the cache is stale.
	requestBudget = 10 * time.Second

	shutdownGrace     = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Server serves the artifact query API.
type Server struct {
	store  *artifacts.Store
	addr   string
	logger *log.Logger
	budget time.Duration
}

// New creates a Server on addr backed by store.
// Pass a nil logger to silence output.
func New(store *artifacts.Store, addr string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{store: store, addr: addr, logger: logger, budget: requestBudget}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/artifacts", s.handleArtifacts)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
