// Package server exposes the map pipeline and the map archive over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /grid              generate a grid (format=text|simple|json)
//	GET  /graph             generate a grid and its room tree (format=text|json|dot|svg)
//	POST /maps              generate and archive a map
//	GET  /maps              list archived maps, newest first
//	GET  /maps/{id}         fetch an archived map
//	GET  /maps/{id}/render  render an archived map in any pipeline format
//
// Errors are returned as {"code": ..., "message": ...} with the status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/roomgrid/pkg/pipeline"
	"github.com/matzehuels/roomgrid/pkg/store"
)

// DefaultMaxCells caps width*height when no limit is configured.
const DefaultMaxCells = 10000

// SeedHeader carries the seed a generated map was built from.
const SeedHeader = "X-Roomgrid-Seed"

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	defaults pipeline.Request
	padding  string
	maxCells int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaults sets the request values used for omitted query parameters.
func WithDefaults(req pipeline.Request, padding string) Option {
	return func(s *Server) {
		s.defaults = req
		s.padding = padding
	}
}

// WithMaxCells caps the grid size a request may ask for.
func WithMaxCells(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxCells = n
		}
	}
}

// New creates a server around runner and st. A nil runner gets an uncached
// one and a nil store an in-memory archive.
func New(runner *pipeline.Runner, st store.Store, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		store:  st,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		defaults: pipeline.Request{
			Width:     pipeline.DefaultWidth,
			Height:    pipeline.DefaultHeight,
			RoomCount: pipeline.DefaultRoomCount,
		},
		padding:  pipeline.DefaultPadding,
		maxCells: DefaultMaxCells,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	return s
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.recovery)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.health)
	r.Get("/grid", s.getGrid)
	r.Get("/graph", s.getGraph)

	r.Route("/maps", func(r chi.Router) {
		r.Post("/", s.createMap)
		r.Get("/", s.listMaps)
		r.Get("/{id}", s.getMap)
		r.Delete("/{id}", s.deleteMap)
		r.Get("/{id}/render", s.renderMap)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errRouteNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondErrorStatus(w, r, http.StatusMethodNotAllowed, errMethodNotAllowed(r))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "max_cells", s.maxCells)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
