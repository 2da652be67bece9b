// Package server exposes a loaded project over HTTP.
//
// Routes:
//
//	GET /healthz                   liveness probe
//	GET /dirs                      every directory of the project
//	GET /dirs/{id}                 one directory with its children and used dirs
//	GET /dirs/{id}/graph/{format}  dependency graph as dot, svg or png
//	GET /relations                 relations computed so far
//	GET /relations/{name}          one relation with its file pairs
//	GET /metrics                   Prometheus metrics, see [WithMetrics]
//
// Directories are addressed by ID (see [dirtree.Dir.ID]). The graph route
// accepts the query parameters successor and ancestor to override the
// configured depth limits, and refresh=1 to bypass the artifact cache.
//
// Relations are created lazily while graphs are generated, so /relations
// only lists those reachable from graphs that were already served.
//
// The served project can be replaced at runtime with [Server.SetProject],
// for example after the manifest changed.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhebbeker/doxygen/pkg/dotdir"
	"github.com/dhebbeker/doxygen/pkg/pipeline"
)

// ShutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
const ShutdownTimeout = 10 * time.Second

// Server serves graphs of a single project.
type Server struct {
	project atomic.Pointer[pipeline.Project]
	runner  *pipeline.Runner
	opts    dotdir.Options
	logger  *log.Logger
	metrics prometheus.Gatherer
	router  chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithMetrics exposes the metrics of g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics = g }
}

// New creates a server. opts are the default graph options for every request.
func New(p *pipeline.Project, runner *pipeline.Runner, opts dotdir.Options, logger *log.Logger, options ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		opts:   opts,
		logger: logger,
	}
	s.project.Store(p)
	for _, o := range options {
		o(s)
	}
	s.router = s.routes()
	return s
}

// Project returns the project currently served.
func (s *Server) Project() *pipeline.Project {
	return s.project.Load()
}

// SetProject replaces the served project. Requests in flight finish with the
// project they started with.
func (s *Server) SetProject(p *pipeline.Project) {
	s.project.Store(p)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}
	r.Route("/dirs", func(r chi.Router) {
		r.Get("/", s.handleDirs)
		r.Get("/{id}", s.handleDir)
		r.Get("/{id}/graph/{format}", s.handleGraph)
	})
	r.Route("/relations", func(r chi.Router) {
		r.Get("/", s.handleRelations)
		r.Get("/{name}", s.handleRelation)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "dirs", len(s.Project().Tree.Dirs()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
