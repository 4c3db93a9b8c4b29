package server

import (
	"cockpitview/app"
	"cockpitview/config"
	"cockpitview/display"
	"cockpitview/log"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = ".ssh/cockpitview_host_key"

	shutdownTimeout = 5 * time.Second
)

// Config describes where the SSH host listens.
type Config struct {
	Host        string
	Port        string
	HostKeyPath string
	// ExportDir is the root under which each user gets an export directory.
	ExportDir string
	App       *config.Config
}

// ConfigFromEnv reads COCKPIT_SSH_HOST, COCKPIT_SSH_PORT and
// COCKPIT_SSH_HOST_KEY. The host key defaults to a file in the config
// directory and is generated on first start.
func ConfigFromEnv(appCfg *config.Config) Config {
	keyPath := defaultHostKeyPath
	if dir, err := config.GetConfigDir(); err == nil {
		keyPath = filepath.Join(dir, "host_key")
	}
	return Config{
		Host:        config.GetEnv("COCKPIT_SSH_HOST", defaultHost),
		Port:        config.GetEnv("COCKPIT_SSH_PORT", defaultPort),
		HostKeyPath: config.GetEnv("COCKPIT_SSH_HOST_KEY", keyPath),
		ExportDir:   filepath.Join(os.TempDir(), "cockpitview-ssh"),
		App:         appCfg,
	}
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Server serves the cockpit preview over SSH. Every session owns its own
// display manager, settings store and published surface, so sessions never
// observe each other's scale.
type Server struct {
	cfg      Config
	srv      *ssh.Server
	sessions atomic.Int64
}

// New builds the SSH host. It does not start listening.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		cfg.App = config.DefaultConfig()
	}
	s := &Server{cfg: cfg}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Addr()),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(log.InfoLog),
		),
	}
	if cfg.HostKeyPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HostKeyPath), 0700); err != nil {
			return nil, fmt.Errorf("failed to create host key directory: %w", err)
		}
		opts = append(opts, wish.WithHostKeyPath(cfg.HostKeyPath))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// Sessions returns the number of connected preview sessions.
func (s *Server) Sessions() int64 {
	return s.sessions.Load()
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.InfoLog.Printf("starting ssh server on %s", s.cfg.Addr())
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.InfoLog.Printf("shutting down ssh server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// teaHandler builds the preview for one session.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	n := s.sessions.Add(1)
	log.InfoLog.Printf("new preview session: user=%s terminal=%s size=%dx%d active=%d",
		sess.User(), pty.Term, pty.Window.Width, pty.Window.Height, n)
	go func() {
		<-sess.Context().Done()
		left := s.sessions.Add(-1)
		log.InfoLog.Printf("session ended: user=%s active=%d", sess.User(), left)
	}()

	out := termenv.NewOutput(sess)
	model := app.New(sess.Context(), s.sessionOptions(sess.User(), func(text string) error {
		out.Copy(text)
		return nil
	}))
	return model, []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
}

// sessionOptions wires a session to in-memory settings and its own surface.
// The clipboard goes back to the client over OSC 52.
func (s *Server) sessionOptions(user string, clip func(string) error) app.Options {
	return app.Options{
		Config:    s.cfg.App,
		Store:     config.NewMemoryStore(),
		Surface:   display.NewSurface(),
		ExportDir: filepath.Join(s.cfg.ExportDir, sanitizeUser(user)),
		Clipboard: clip,
	}
}

// sanitizeUser turns an SSH user name into a single path element.
func sanitizeUser(user string) string {
	name := filepath.Base(filepath.Clean("/" + user))
	if name == "/" || name == "." || name == "" {
		return "anonymous"
	}
	return name
}
