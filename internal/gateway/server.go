// Package gateway provides the HTTP gateway to a running harbor
package gateway

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
)

// ShutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const ShutdownTimeout = 5 * time.Second

// Server represents the gateway server
type Server struct {
	ctl     *control.Control
	router  chi.Router
	started time.Time

	// base outlives requests; background drivers started over HTTP run
	// under it.
	base context.Context
}

// NewServer creates a new gateway server for ctl
func NewServer(ctl *control.Control) *Server {
	s := &Server{ctl: ctl, started: time.Now(), base: context.Background()}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/port", s.handleStats)
	r.Get("/slots", s.handleSlots)
	r.Get("/turned-away", s.handleTurnedAway)
	r.Get("/log", s.handleLog)
	r.Method(http.MethodGet, "/metrics", s.ctl.Metrics().Handler())

	r.Route("/boats", func(r chi.Router) {
		r.Get("/", s.handleBoats)
		r.Post("/", s.handleAddBoat)
		r.Get("/{id}", s.handleBoat)
		r.Delete("/{id}", s.handleRemoveBoat)
	})

	r.Post("/tick", s.handleTick)
	r.Post("/reset", s.handleReset)
	r.Post("/save", s.handleSave)
	r.Post("/load", s.handleLoad)

	r.Route("/simulation", func(r chi.Router) {
		r.Get("/", s.handleSimulationStatus)
		r.Post("/start", s.handleSimulationStart)
		r.Post("/stop", s.handleSimulationStop)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.ServerError("failed to listen on "+addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.base = ctx

	errCh := make(chan error, 1)
	go func() {
		logging.Info("gateway listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.ServerError("gateway stopped", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	logging.Debug("gateway shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.ServerError("gateway shutdown failed", err)
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()))
	})
}
