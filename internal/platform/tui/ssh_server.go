package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/mini2048/internal/handshake"
	"github.com/vovakirdan/mini2048/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.mini2048/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Handshake controls the per-session readiness signal.
	Handshake handshake.Options
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves one independent game per SSH session. All sessions share
// the scores database.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int64
}

// NewSSHServer creates a new SSH server. store may be nil, in which case
// nothing is persisted. The server does not own the store.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "mini2048-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("ssh: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".mini2048", "host_key")
	}

	// Ensure host key directory exists
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "mini2048 needs a terminal, connect with: ssh -t")
		return nil, nil
	}

	logger := s.logger.With("user", sshSession.User())
	model := NewSessionModel(Options{
		Store:     s.store,
		Notifier:  s.sessionNotifier(sshSession),
		Handshake: s.config.Handshake,
		Logger:    logger,
		Width:     pty.Window.Width,
		Height:    pty.Window.Height,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionNotifier reports readiness once the client is still connected
// after the loading delay.
func (s *SSHServer) sessionNotifier(sshSession ssh.Session) handshake.Notifier {
	return handshake.Func(func(ctx context.Context) error {
		if err := sshSession.Context().Err(); err != nil {
			return fmt.Errorf("ssh: session closed before ready: %w", err)
		}
		s.logger.Debug("session ready", "user", sshSession.User())
		return nil
	})
}

// loggingMiddleware logs SSH session events and tracks open sessions.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		open := s.active.Add(1)
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"open", open,
		)
		defer func() {
			s.logger.Info("session ended",
				"user", sshSession.User(),
				"duration", time.Since(start).Round(time.Second),
				"open", s.active.Add(-1),
			)
		}()
		next(sshSession)
	}
}

// ActiveSessions returns the number of connected players.
func (s *SSHServer) ActiveSessions() int64 {
	return s.active.Load()
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ssh: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...", "open", s.ActiveSessions())
	return s.Shutdown()
}

// Serve accepts sessions on l until the server is shut down.
func (s *SSHServer) Serve(l net.Listener) error {
	if err := s.server.Serve(l); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("ssh: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
