// SPDX-License-Identifier: MPL-2.0

// Package sshd serves the command registry to interactive SSH sessions
// using the Wish library. Each session gets a line-oriented shell that
// resolves group/command names against the registry and renders the
// results back over the SSH channel.
package sshd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"quarterdeck/internal/core/serverbase"
	"quarterdeck/pkg/command"
)

// Server is the SSH shell server. A Server instance is single-use: once
// stopped or failed, create a new instance.
type Server struct {
	*serverbase.Base

	// Immutable after New.
	cfg      Config
	registry *command.Registry
	invoker  *command.Invoker
	banner   string
	password string
	authKeys []ssh.PublicKey

	// Initialized during Start(); protected by srvMu for writes.
	srvMu    sync.Mutex
	srv      *ssh.Server
	listener net.Listener
	addr     string

	logger *log.Logger
}

// New creates a shell server over the given registry. The server is not
// started; call Start() to begin accepting connections.
//
// When cfg.Password is empty a random one-off password is generated and
// logged at warn level so operators can still get in.
func New(cfg Config, registry *command.Registry, invoker *command.Invoker, logger *log.Logger) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultConfig().Host
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultConfig().Prompt
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = DefaultConfig().StartupTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, errors.New("sshd: nil command registry")
	}
	if invoker == nil {
		return nil, errors.New("sshd: nil invoker")
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "sshd"})
	}

	banner, err := renderBanner(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering banner: %w", err)
	}

	s := &Server{
		Base:     serverbase.NewBase(),
		cfg:      cfg,
		registry: registry,
		invoker:  invoker,
		banner:   banner,
		logger:   logger,
	}

	if err := s.initAuth(); err != nil {
		return nil, err
	}

	return s, nil
}

// Start starts the shell server and blocks until either:
//   - The server is ready to accept connections (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled (returns context error)
//   - The startup timeout is exceeded (returns error)
//
// After Start() returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	if err := s.TransitionToStarting(ctx); err != nil {
		return err
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		s.TransitionToFailed(fmt.Errorf("failed to listen on %s: %w", addr, err))
		return s.LastError()
	}

	s.srvMu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srvMu.Unlock()

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithPasswordAuth(s.passwordHandler),
		wish.WithPublicKeyAuth(s.publicKeyHandler),
		// Middleware runs bottom-to-top: logging, then the PTY guard,
		// then the shell itself.
		wish.WithMiddleware(
			s.shellMiddleware(),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(s.logger),
		),
	}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	if s.cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(s.cfg.IdleTimeout))
	}
	if s.cfg.MaxTimeout > 0 {
		opts = append(opts, wish.WithMaxTimeout(s.cfg.MaxTimeout))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		_ = listener.Close() // Best-effort cleanup on error
		s.TransitionToFailed(fmt.Errorf("failed to create SSH server: %w", err))
		return s.LastError()
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()

	s.AddGoroutine()
	go s.serve()

	select {
	case <-s.StartedChannel():
		s.logger.Info("shell server started", "address", s.addr, "groups", len(s.registry.Groups()))
		return nil

	case err := <-s.Err():
		s.TransitionToFailed(err)
		return err

	case <-startupCtx.Done():
		s.TransitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.LastError()
	}
}

// Stop gracefully stops the shell server. It blocks until all sessions are
// closed or the shutdown timeout is reached. Safe to call multiple times.
func (s *Server) Stop() error {
	if !s.TransitionToStopping() {
		s.WaitForShutdown()
		return nil
	}
	return s.doStop()
}

// doStop performs the actual shutdown logic.
func (s *Server) doStop() error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.srvMu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !isClosedConnError(shutdownErr) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close() // Best-effort cleanup during shutdown
	}
	s.srvMu.Unlock()

	s.WaitForShutdown()

	s.TransitionToStopped()
	s.CloseErrChannel()
	s.logger.Info("shell server stopped")

	return shutdownErr
}

// serve runs the SSH server and reports unexpected failures.
func (s *Server) serve() {
	defer s.DoneGoroutine()

	s.TransitionToRunning()

	s.srvMu.Lock()
	srv := s.srv
	listener := s.listener
	s.srvMu.Unlock()

	if srv == nil || listener == nil {
		return
	}

	err := srv.Serve(listener)
	if err != nil {
		if errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}
		s.SendError(fmt.Errorf("serve error: %w", err))
	}
}

// Address returns the server's bound address (host:port). Blocks until the
// server has started or failed; empty string if it never started.
func (s *Server) Address() string {
	select {
	case <-s.StartedChannel():
	default:
		ctx := s.Context()
		if ctx == nil {
			return ""
		}
		select {
		case <-s.StartedChannel():
		case <-ctx.Done():
			return ""
		}
	}
	s.srvMu.Lock()
	defer s.srvMu.Unlock()
	return s.addr
}

// Port returns the server's listening port, 0 if it never started.
func (s *Server) Port() int {
	addr := s.Address()
	if addr == "" {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return 0
	}
	return port
}

// Wait blocks until the server stops. Returns the fatal error if the
// server failed, nil otherwise.
func (s *Server) Wait() error {
	s.WaitForShutdown()

	if s.State() == serverbase.StateFailed {
		return s.LastError()
	}
	return nil
}

// isClosedConnError checks for "use of closed network connection".
func isClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Err.Error() == "use of closed network connection"
	}
	return false
}
