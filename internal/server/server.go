// Package server serves the interactive diagram over HTTP: the static page,
// layout JSON, and per-client interaction sessions driven by pointer events.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/matsen/ringmap/internal/surface"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// Loader produces the dataset to draw. It is called once at startup and again
// on every reload.
type Loader func() (*taxonomy.Dataset, error)

// Options configures a Server.
type Options struct {
	Width      float64
	Height     float64
	EventRate  float64 // events per second per session
	EventBurst int
	SessionTTL time.Duration
	Title      string
	Logger     *slog.Logger
}

// Server is the preview server. The current scene is swapped atomically on
// reload; each session serializes its own events.
type Server struct {
	opts    Options
	load    Loader
	log     *slog.Logger
	metrics *Metrics

	mu    sync.RWMutex
	scene *surface.Scene

	sessions *sessionStore
	router   *gin.Engine
}

// New loads the dataset and builds the routes.
func New(load Loader, opts Options) (*Server, error) {
	if load == nil {
		return nil, errors.New("server: nil loader")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.EventRate <= 0 {
		opts.EventRate = 30
	}
	if opts.EventBurst <= 0 {
		opts.EventBurst = 60
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}

	s := &Server{
		opts:     opts,
		load:     load,
		log:      opts.Logger,
		metrics:  NewMetrics(),
		sessions: newSessionStore(rate.Limit(opts.EventRate), opts.EventBurst),
	}
	sc, err := s.build()
	if err != nil {
		return nil, err
	}
	s.scene = sc
	s.router = s.routes()
	return s, nil
}

func (s *Server) build() (*surface.Scene, error) {
	ds, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	return surface.NewScene(ds, s.opts.Width, s.opts.Height)
}

// Reload rebuilds the scene from the loader and resets every session. On
// failure the previous scene stays in place.
func (s *Server) Reload() error {
	sc, err := s.build()
	if err != nil {
		s.metrics.Reloads.WithLabelValues("error").Inc()
		s.log.Error("reload failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.scene = sc
	s.mu.Unlock()
	s.sessions.reset(sc)

	s.metrics.Reloads.WithLabelValues("ok").Inc()
	s.log.Info("dataset reloaded", "nodes", len(sc.Nodes), "sessions", s.sessions.len())
	return nil
}

// Scene returns the scene currently served.
func (s *Server) Scene() *surface.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SweepSessions drops idle sessions and returns how many it removed.
func (s *Server) SweepSessions() int {
	n := s.sessions.sweep(s.opts.SessionTTL)
	s.metrics.SessionsActive.Set(float64(s.sessions.len()))
	if n > 0 {
		s.log.Debug("expired sessions", "count", n)
	}
	return n
}

// Run serves on addr until ctx is done. When watch is non-empty the dataset
// is reloaded whenever that file changes.
func (s *Server) Run(ctx context.Context, addr, watch string) error {
	if watch != "" {
		w, err := NewWatcher(watch, DefaultDebounce, func() { _ = s.Reload() })
		if err != nil {
			return fmt.Errorf("watching %s: %w", watch, err)
		}
		w.Start(ctx)
		defer w.Stop()
		s.log.Info("watching dataset", "path", watch)
	}

	go func() {
		ticker := time.NewTicker(s.opts.SessionTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepSessions()
			}
		}
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
