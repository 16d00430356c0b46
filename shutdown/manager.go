// Package shutdown runs long-lived servers and stops them together, giving
// each a shared grace period before forcing it closed.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/intlphone/logger"
)

// Server is anything Manager can serve and stop.
type Server interface {
	Serve(ctx context.Context) error
	GracefulStopWithTimeout(ctx context.Context) error
	ForceStop()
	Name() string
}

// Metrics collects shutdown statistics.
type Metrics interface {
	IncStopTotal(result string)
	ObserveGracefulDuration(d time.Duration)
	IncServeError(name string)
	IncServerStopResult(name, result string)
}

type Config struct {
	// ShutdownTimeout bounds the graceful stop. Zero forces servers at once.
	ShutdownTimeout time.Duration
	// HandleSignals stops on SIGINT and SIGTERM.
	HandleSignals bool
	// IsNormalError reports Serve errors expected during shutdown.
	IsNormalError func(error) bool

	Logger  logger.LoggerInterface
	Metrics Metrics
}

type Manager struct {
	cfg     Config
	mu      sync.Mutex
	servers []Server
	stopped bool
}

func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.IsNormalError == nil {
		cfg.IsNormalError = DefaultIsNormalErr
	}
	return &Manager{cfg: cfg}
}

// Add registers s. Nil servers are ignored.
func (m *Manager) Add(s Server) {
	if s == nil {
		return
	}
	m.mu.Lock()
	m.servers = append(m.servers, s)
	m.mu.Unlock()
}

// Run serves every registered server and blocks until ctx ends or one of
// them fails, then stops all of them. It returns the first abnormal Serve
// error, or nil.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.HandleSignals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}

	m.mu.Lock()
	servers := append([]Server(nil), m.servers...)
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			name := safeName(srv)
			m.cfg.Logger.Infow("serve start", "name", name)
			err := srv.Serve(gctx)
			if err != nil && !m.cfg.IsNormalError(err) && gctx.Err() == nil {
				m.cfg.Logger.Errorw("serve error", "name", name, "error", err)
				if m.cfg.Metrics != nil {
					m.cfg.Metrics.IncServeError(name)
				}
				return err
			}
			m.cfg.Logger.Infow("serve stop", "name", name)
			return nil
		})
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- g.Wait() }()

	var (
		groupDone bool
		groupErr  error
	)
	select {
	case <-ctx.Done():
		m.cfg.Logger.Infow("context done; starting graceful stop")
	case err := <-waitCh:
		groupDone, groupErr = true, err
		if err != nil {
			m.cfg.Logger.Warnw("server failed; starting graceful stop", "error", err)
		}
	}

	m.Stop()

	if groupDone {
		return normal(m.cfg.IsNormalError, groupErr)
	}

	select {
	case err := <-waitCh:
		return normal(m.cfg.IsNormalError, err)
	case <-time.After(m.cfg.ShutdownTimeout + 2*time.Second):
		return fmt.Errorf("shutdown: servers still running %s after stop", m.cfg.ShutdownTimeout+2*time.Second)
	}
}

func normal(isNormal func(error) bool, err error) error {
	if err != nil && !isNormal(err) {
		return err
	}
	return nil
}

// Stop gracefully stops every server, forcing those that miss the deadline.
// Calls after the first are no-ops.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	servers := append([]Server(nil), m.servers...)
	m.mu.Unlock()

	started := time.Now()
	var forcedAny atomic.Bool

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()

	var g errgroup.Group
	for _, srv := range servers {
		g.Go(func() error {
			name := safeName(srv)

			graceDone := make(chan error, 1)
			go func() { graceDone <- srv.GracefulStopWithTimeout(ctx) }()

			result := "success"
			select {
			case err := <-graceDone:
				if err != nil {
					m.cfg.Logger.Warnw("graceful stop error; forcing", "name", name, "error", err)
					srv.ForceStop()
					result = "force"
				} else {
					m.cfg.Logger.Infow("graceful stop done", "name", name)
				}
			case <-ctx.Done():
				m.cfg.Logger.Warnw("graceful stop timeout; forcing", "name", name)
				srv.ForceStop()
				result = "force"
			}

			if result == "force" {
				forcedAny.Store(true)
			}
			if m.cfg.Metrics != nil {
				m.cfg.Metrics.IncServerStopResult(name, result)
			}
			return nil
		})
	}
	_ = g.Wait()

	if m.cfg.Metrics != nil {
		m.cfg.Metrics.ObserveGracefulDuration(time.Since(started))
		result := "success"
		if forcedAny.Load() {
			result = "force"
		}
		m.cfg.Metrics.IncStopTotal(result)
	}
}

// DefaultIsNormalErr accepts nil, context cancellation, http.ErrServerClosed
// and closed-listener errors.
func DefaultIsNormalErr(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}

func safeName(s Server) string {
	if n := s.Name(); n != "" {
		return n
	}
	return "server"
}
