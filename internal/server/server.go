// Package server exposes quizzes, datasets and live play sessions over HTTP
// so a browser can draw the map while geoquiz runs the quiz.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/geoquiz/internal/game"
	"github.com/abhisek/geoquiz/internal/session"
	"github.com/abhisek/geoquiz/internal/store"
)

// Options configures a Server.
type Options struct {
	Quizzes  store.QuizRepo
	Datasets store.DatasetRepo
	Events   store.EventRepo // optional
	Loader   *game.Loader
	Logger   *slog.Logger

	// AutoAdvanceDelay defaults to session.AutoAdvanceDelay.
	AutoAdvanceDelay time.Duration

	// OriginPatterns are the websocket origins accepted besides same-host.
	OriginPatterns []string
}

// Server serves the HTTP bridge.
type Server struct {
	opts Options
	log  *slog.Logger
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.AutoAdvanceDelay <= 0 {
		opts.AutoAdvanceDelay = session.AutoAdvanceDelay
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{opts: opts, log: log}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/quizzes", s.handleListQuizzes)
		r.Get("/quizzes/{id}", s.handleGetQuiz)
		r.Get("/datasets/{id}/geojson", s.handleDatasetGeoJSON)
		r.Get("/datasets/{id}/regions", s.handleDatasetRegions)
		r.Get("/play/{quizID}", s.handlePlay)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Router(),
		ReadTimeout: 30 * time.Second,
		// Websocket sessions are long lived.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request through slog.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", chiMiddleware.GetReqID(r.Context()),
			)
		})
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// storeError maps store errors to HTTP statuses.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Warn("store request failed", "error", err)
	Error(w, http.StatusInternalServerError, "internal error")
}
