// Package server provides the HTTP API for honya.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/honya/internal/config"
	"github.com/hyperjump/honya/internal/metrics"
	"github.com/hyperjump/honya/internal/recommend"
	"github.com/hyperjump/honya/internal/search"
)

// State is one immutable data snapshot: the recommendation engine over the
// loaded catalog and ratings, plus the search index built from the same
// catalog. A reload builds a fresh State and swaps it in atomically; requests
// in flight keep the snapshot they started with.
type State struct {
	Engine *recommend.Engine
	Search *search.Index
}

// Server is the HTTP server for the honya API.
type Server struct {
	state  atomic.Pointer[State]
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given initial snapshot.
func NewServer(state *State, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
	}
	s.state.Store(state)
	return s
}

// Swap replaces the current snapshot. The previous snapshot's search index is
// left for in-flight requests; callers close it once those have drained or
// simply leak it to the GC (memory-only indices hold no file handles).
func (s *Server) Swap(state *State) {
	s.state.Store(state)
}

// State returns the current snapshot.
func (s *Server) State() *State {
	return s.state.Load()
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(requestMetrics)

	r.Get("/", s.handleRoot)
	r.Get("/privacy-policy", s.handlePrivacyPolicy)
	r.Get("/books", s.handleBooks)
	r.Get("/book", s.handleBook)
	r.Get("/recommend", s.handleRecommend)
	r.Get("/search", s.handleSearch)
	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/status", s.handleStatus)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// requestMetrics records per-route request counts with final status codes.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		metrics.ObserveRequest(r.URL.Path, ww.Status())
	})
}
