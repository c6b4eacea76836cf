// Package server exposes a sheet's row tree over HTTP.
//
// Routes:
//
//	GET    /healthz            liveness check
//	GET    /tree?format=json   the row tree (json, text, dot or svg)
//	GET    /rows?from=&to=     flattened rows, optionally windowed
//	POST   /collapse           set or toggle one row's collapse flag
//	DELETE /collapse           expand every row
//
// Every GET builds the tree from a fresh snapshot of the collapse store,
// so a response always reflects one consistent state.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seqtree/pkg/collapse"
	"github.com/matzehuels/seqtree/pkg/observability"
	"github.com/matzehuels/seqtree/pkg/pipeline"
	"github.com/matzehuels/seqtree/pkg/scene"
)

// Config configures a [Server].
type Config struct {
	Sheet *scene.Sheet
	Store *collapse.Store

	// Persist, when set, receives the store after every change.
	Persist *collapse.FileStore

	// Runner renders and caches artifacts. Defaults to an uncached runner.
	Runner *pipeline.Runner

	// Options are the layout and render options of every request. Formats
	// is overridden per request.
	Options pipeline.Options

	Logger *log.Logger
}

// Server serves one sheet.
type Server struct {
	cfg    Config
	router chi.Router
}

// New validates cfg and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Sheet == nil {
		return nil, errors.New("server: sheet is required")
	}
	if cfg.Store == nil {
		cfg.Store = collapse.NewStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Options.Logger == nil {
		cfg.Options.Logger = cfg.Logger
	}
	if err := cfg.Options.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hooks)

	r.Get("/healthz", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Get("/rows", s.handleRows)
	r.Post("/collapse", s.handleCollapse)
	r.Delete("/collapse", s.handleExpandAll)
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
	go func() {
		s.cfg.Logger.Info("listening", "addr", addr, "sheet", s.cfg.Sheet.Address().SheetID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// hooks reports every request to the registered HTTP hooks.
func hooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := observability.HTTP()
		h.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
