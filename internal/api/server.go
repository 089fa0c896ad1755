package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"log/slog"

	"pulse/internal/config"
	"pulse/internal/logging"
	"pulse/internal/report"
	"pulse/internal/store"
)

// Server hosts the read-only API over the store and the report cache.
type Server struct {
	bind   string
	token  string
	dbPath string
	logger *slog.Logger
	store  *store.Store
	cache  *report.Cache
	info   func() DaemonInfo

	listener net.Listener
	server   *http.Server
}

// Option customizes the server.
type Option func(*Server)

// WithDaemonInfo supplies the hosting daemon's identity for /api/status.
func WithDaemonInfo(info func() DaemonInfo) Option {
	return func(s *Server) {
		if info != nil {
			s.info = info
		}
	}
}

// NewServer builds the API server. A nil server means the API is disabled
// because no bind address is configured.
func NewServer(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Server {
	if cfg == nil || st == nil {
		return nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:   bind,
		token:  strings.TrimSpace(cfg.Paths.APIToken),
		dbPath: cfg.DatabasePath(),
		logger: logging.WithComponent(logger, "api"),
		store:  st,
		cache:  report.NewCache(cfg.Paths.CacheFile),
		info: func() DaemonInfo {
			return DaemonInfo{Running: true, PID: os.Getpid()}
		},
	}
	for _, opt := range opts {
		opt(srv)
	}

	// Health stays open so probes work without credentials; everything else
	// sits behind the bearer token when one is configured.
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", srv.handleHealth)
	mux.HandleFunc("/api/status", srv.auth(srv.handleStatus))
	mux.HandleFunc("/api/report", srv.auth(srv.handleReport))
	mux.HandleFunc("/api/sales-opportunities/", srv.auth(srv.handleOpportunity))
	mux.HandleFunc("/api/runs", srv.auth(srv.handleRuns))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return authMiddleware(s.token, next)
}

// Start begins serving in the background and shuts down when ctx is
// canceled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop drains in-flight requests and closes the listener.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}
