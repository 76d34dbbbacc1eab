// Package api exposes the physics core over HTTP.
//
// Handlers parse loosely typed JSON (numbers may arrive as strings), fill
// in defaults, validate, call into physics and render the rounded result
// through package present. Validation failures become 400 responses with
// a structured body; anything unexpected becomes a 500 and never takes
// the process down.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/san-kum/ballistics/internal/config"
	"github.com/san-kum/ballistics/internal/materials"
	"github.com/san-kum/ballistics/internal/physics"
)

type Server struct {
	cfg     config.ServerConfig
	env     physics.Environment
	catalog *materials.Catalog
	log     *slog.Logger
	sem     *semaphore.Weighted
	handler http.Handler
}

func New(cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:     cfg.Server,
		env:     cfg.Environment(),
		catalog: materials.Default(),
		log:     log,
		sem:     semaphore.NewWeighted(cfg.Server.MaxConcurrent),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("POST /api/trajectory", s.limit(s.handleTrajectory))
	mux.Handle("POST /api/trajectory/svg", s.limit(s.handleTrajectorySVG))
	mux.Handle("POST /api/trajectory/batch", s.limit(s.handleBatch))
	mux.Handle("POST /api/collision", s.limit(s.handleCollision))
	mux.Handle("POST /api/forces", s.limit(s.handleForces))
	mux.HandleFunc("GET /api/materials", s.handleMaterials)
	mux.HandleFunc("GET /api/materials/{name}", s.handleMaterial)
	mux.HandleFunc("GET /api/surfaces", s.handleSurfaces)

	timeoutBody := `{"error":{"code":"timeout","message":"request timed out"}}`
	var h http.Handler = s.recoverer(mux)
	h = http.TimeoutHandler(h, s.cfg.RequestTimeout, timeoutBody)
	return s.logRequests(h)
}

// handlerFunc is an http handler that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// limit bounds concurrent computations with the server semaphore and
// renders returned errors.
func (s *Server) limit(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.sem.Acquire(r.Context(), 1); err != nil {
			s.fail(w, r, &Error{Status: http.StatusServiceUnavailable, Code: "busy", Message: "server is at capacity"})
			return
		}
		defer s.sem.Release(1)

		if err := fn(w, r); err != nil {
			s.fail(w, r, err)
		}
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	if werr := writeJSON(w, apiErr.Status, errorBody{Error: apiErr}); werr != nil {
		s.log.Warn("write error response", "err", werr)
	}
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.log.Error("panic in handler",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
				s.fail(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		)
	})
}

// ListenAndServe serves until ctx is canceled and then shuts down,
// giving in-flight requests the request timeout to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
