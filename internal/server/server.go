// Package server runs the taskdesk HTTP API with graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/taskdesk/taskdesk/internal/api"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

const (
	// DefaultAddress is the default address the server listens on.
	DefaultAddress = "localhost:8080"
	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// Options configures New.
type Options struct {
	// Addr is the listen address. Empty uses DefaultAddress.
	Addr string
	// DB is closed by Shutdown.
	DB     *store.DB
	Repos  *sqlite.Repositories
	Logger *slog.Logger
	// BcryptCost is passed to the router. Zero uses the bcrypt default.
	BcryptCost int
	// AuthRatePerMinute and AuthBurst limit register and login per client.
	AuthRatePerMinute int
	AuthBurst         int
}

// Server manages the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	db         *store.DB
	logger     *slog.Logger
	listener   net.Listener
	mu         sync.Mutex
	started    bool
	stopped    bool
}

// New creates a server serving the API router for opts.
func New(opts Options) *Server {
	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddress
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	router := api.NewRouter(api.Options{
		DB:         opts.DB,
		Repos:      opts.Repos,
		Logger:     log,
		BcryptCost: opts.BcryptCost,

		AuthRatePerMinute: opts.AuthRatePerMinute,
		AuthBurst:         opts.AuthBurst,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
		},
		db:     opts.DB,
		logger: log,
	}
}

// Start starts the HTTP server and blocks until the server is shut down.
// It returns http.ErrServerClosed when the server is gracefully shut down.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	// Listen first so Addr reports the real port when asked for port 0.
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.listener = ln
	s.started = true
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", ln.Addr().String())

	return s.httpServer.Serve(ln)
}

// Shutdown stops accepting connections, waits for active requests until ctx
// is done, then closes the database. A server shut down before Start never
// serves.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("error closing database", "error", err)
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// Run starts the server and shuts it down gracefully when ctx is canceled
// or the process receives SIGINT or SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.logger.Info("stop requested", "reason", context.Cause(ctx))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
