// Package server exposes the query pipeline over HTTP and serves generated
// chart images.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fathomhq/fathom/internal/agent"
)

// QueryProcessor is the pipeline contract the server depends on.
// *agent.Agent is the production implementation.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string) (*agent.Response, error)
}

// Config holds server configuration.
type Config struct {
	Addr      string // listen address, e.g. ":8000"
	StaticDir string // directory generated charts are written to and served from
}

// Server is the HTTP front end of the agent.
type Server struct {
	config    Config
	processor QueryProcessor
	httpSrv   *http.Server
	logger    *log.Logger
}

// New creates a Server around processor.
func New(cfg Config, processor QueryProcessor) *Server {
	s := &Server{
		config:    cfg,
		processor: processor,
		logger:    log.New(os.Stderr, "[fathom-server] ", log.LstdFlags),
	}
	s.httpSrv = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/static/", s.handleStatic)
	return withCORS(mux)
}

// Handler returns the fully wired handler (used by tests).
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", s.config.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// withCORS applies the permissive policy the browser UI needs.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
