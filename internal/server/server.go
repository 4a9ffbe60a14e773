// Package server implements the riverlabel HTTP API.
//
// Routes:
//
//	POST /api/place-label         optimal placement with centroid baseline
//	POST /api/compare-algorithms  full three-strategy comparison
//	GET  /api/compare-algorithms  usage hint
//	GET  /api/runs                recent run history
//	GET  /health                  liveness probe
//
// Handlers adapt JSON to pipeline.Options, run the shared Runner, and map
// structured error codes to HTTP statuses. They hold no placement logic.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cartolab/riverlabel/pkg/cache"
	"github.com/cartolab/riverlabel/pkg/errors"
	"github.com/cartolab/riverlabel/pkg/observability"
	"github.com/cartolab/riverlabel/pkg/pipeline"
	"github.com/cartolab/riverlabel/pkg/store"
)

// Server wires the pipeline runner, run store, and router together.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server around an existing runner and store. A nil store
// disables run recording and the history endpoint returns empty lists.
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/place-label", s.handlePlaceLabel)
		r.Post("/compare-algorithms", s.handleCompare)
		r.Get("/compare-algorithms", s.handleCompareHint)
		r.Get("/runs", s.handleRuns)
	})
	return r
}

// requestLogger tags each request with an ID, logs it, and reports it to
// the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, sw.status, elapsed)

		s.logger.Info("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", elapsed)
	})
}

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// writeError maps a structured error to an HTTP status:
// input errors are 400, geometry errors 422, oversized grids 413,
// everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsInput(err):
		status = http.StatusBadRequest
	case errors.IsGeometry(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeGridTooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

// BuildCache constructs the cache backend selected by the config.
func BuildCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case CacheBackendMemory:
		return cache.NewMemoryCache(), nil
	case CacheBackendFile:
		return cache.NewFileCache(cfg.Dir)
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Backend)
}

// BuildStore constructs the run store selected by the config. Returns nil
// when recording is disabled.
func BuildStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, cfg.MongoURI)
}
