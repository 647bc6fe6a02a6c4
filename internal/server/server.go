package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Config holds the server configuration.
type Config struct {
	Addr   string
	Logger zerolog.Logger
}

// Server is the read-only HTTP server for the todo dashboard and API.
type Server struct {
	Router *chi.Mux
	source TodoSource
	config Config
	log    zerolog.Logger
}

// New creates a new Server over the given source.
func New(cfg Config, src TodoSource) (*Server, error) {
	if src == nil {
		return nil, fmt.Errorf("todo source must not be nil")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("listen address must not be empty")
	}

	srv := &Server{
		Router: chi.NewRouter(),
		source: src,
		config: cfg,
		log:    cfg.Logger,
	}

	srv.Router.Use(middleware.Recoverer)
	srv.Router.Use(srv.requestLogger)
	srv.Router.Use(srv.reload)

	srv.Router.Get("/", srv.handleDashboard)
	srv.Router.Get("/todo/{id}", srv.handleTodoDetail)

	srv.Router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", srv.handleHealth)
		r.Get("/todos", srv.handleListTodos)
		r.Get("/todos/{id}", srv.handleGetTodo)
	})

	return srv, nil
}

// ListenAddr returns the address the server should listen on.
func (s *Server) ListenAddr() string {
	return s.config.Addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	}
}

// reload refreshes the source before handling a request. A failed reload is
// logged and the last good todos are served.
func (s *Server) reload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.source.Reload(); err != nil {
			s.log.Warn().Err(err).Str("path", s.source.Path()).Msg("could not reload todos")
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]any{
		"status":    "ok",
		"todos":     s.source.Len(),
		"available": s.source.Available(),
	})
}
