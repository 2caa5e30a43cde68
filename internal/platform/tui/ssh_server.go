package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/starblaster/internal/config"
	"github.com/vovakirdan/starblaster/internal/game"
	"github.com/vovakirdan/starblaster/internal/metrics"
)

// sessionIDKey stores the session's UUID in the ssh.Context.
type sessionIDKey struct{}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key is generated at ~/.starblaster/host_key.
	HostKeyPath string

	// IdleTimeout closes connections with no input for this long.
	IdleTimeout time.Duration

	FPS       int
	Game      config.StarBlasterConfig
	RateLimit RateLimitConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		FPS:         60,
		Game:        config.DefaultStarBlasterConfig(),
		RateLimit:   DefaultRateLimitConfig,
	}
}

// SSHDeps are shared by every session of a server.
type SSHDeps struct {
	Leaderboard *game.Leaderboard
	History     game.HistoryRecorder
	Recorder    *metrics.Recorder // Optional
	Logger      *log.Logger
}

// SSHServer serves one independent game per SSH session. Sessions share the
// leaderboard, the history store and the metrics recorder.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	deps     SSHDeps
	limiter  *IPRateLimiter
	logger   *log.Logger
	shutdown chan struct{}
	stopOnce sync.Once
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, deps SSHDeps) (*SSHServer, error) {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Leaderboard == nil {
		deps.Leaderboard = game.NewLeaderboard(nil, deps.Logger)
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tui: home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".starblaster", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: host key directory: %w", err)
	}

	srv := &SSHServer{
		config:   cfg,
		deps:     deps,
		limiter:  NewIPRateLimiter(cfg.RateLimit),
		logger:   deps.Logger,
		shutdown: make(chan struct{}),
	}

	// The last middleware runs first.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			srv.admissionMiddleware,
		),
	)
	if err != nil {
		srv.limiter.Stop()
		return nil, fmt.Errorf("tui: create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// admissionMiddleware rejects sessions without a PTY and clients that open
// sessions faster than the rate limit allows.
func (s *SSHServer) admissionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		if !s.limiter.Allow(sess.RemoteAddr()) {
			s.reject(sess, "rate_limit", "Too many connections. Try again in a moment.")
			return
		}
		if _, _, ok := sess.Pty(); !ok {
			s.reject(sess, "no_pty", "StarBlaster needs a terminal. Connect with: ssh -t")
			return
		}
		next(sess)
	}
}

func (s *SSHServer) reject(sess ssh.Session, reason, message string) {
	s.logger.Warn("session rejected",
		"reason", reason,
		"user", sess.User(),
		"remote", sess.RemoteAddr().String(),
	)
	if s.deps.Recorder != nil {
		s.deps.Recorder.SessionRejected(reason)
	}
	wish.Fatalln(sess, message)
}

// sessionMiddleware tags the session with an ID and logs its lifetime.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		id := uuid.NewString()
		sess.Context().SetValue(sessionIDKey{}, id)

		started := time.Now()
		s.logger.Info("session started",
			"session", id,
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		if s.deps.Recorder != nil {
			s.deps.Recorder.SessionOpened()
			defer s.deps.Recorder.SessionClosed()
		}

		next(sess)

		s.logger.Info("session ended",
			"session", id,
			"user", sess.User(),
			"duration", time.Since(started).Round(time.Second),
		)
	}
}

// teaHandler creates a game for each SSH session. Remote players have no
// audio.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	id, _ := sess.Context().Value(sessionIDKey{}).(string)
	var events []game.EventSink
	if s.deps.Recorder != nil {
		events = append(events, s.deps.Recorder)
	}

	model := NewModel(Options{
		Config:      s.config.Game,
		FPS:         s.config.FPS,
		Width:       pty.Window.Width,
		Height:      pty.Window.Height,
		Leaderboard: s.deps.Leaderboard,
		History:     s.deps.History,
		Events:      events,
		Logger:      s.logger.With("session", id),
		PlayerName:  sess.User(),
	})

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// ListenAndServe starts the SSH server and blocks until SIGINT, SIGTERM or
// Shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		return fmt.Errorf("tui: serve: %w", err)
	case <-done:
	case <-s.shutdown:
		return nil
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server. Shared dependencies stay open;
// the caller owns them.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.limiter.Stop()
	s.stopOnce.Do(func() { close(s.shutdown) })
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
