package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pulsehq/pulse/pkg/logger"
)

// SweepInterval is the cadence of the background expiry sweep. It is a fixed
// constant of the deployment, not configurable through the environment; tests
// inject a shorter interval through WithSweepInterval.
const SweepInterval = 15 * time.Minute

// defaultSweepTimeout bounds a single cleanup pass so a degraded store does
// not wedge the sweeper goroutine.
const defaultSweepTimeout = time.Minute

// Sweeper periodically invokes the manager's expired-session cleanup to bound
// store growth. It runs independently of request volume. Errors during a
// sweep are logged and swallowed; a failed sweep never crashes the host
// process and the next tick retries.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepInterval overrides the sweep cadence. Non-positive values are
// ignored.
func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSweepTimeout bounds a single cleanup pass. Non-positive values are
// ignored.
func WithSweepTimeout(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSweeperLogger sets a custom logger for the sweeper.
func WithSweeperLogger(l *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSweeper creates a sweeper over the given manager.
func NewSweeper(manager *Manager, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		manager:  manager,
		interval: SweepInterval,
		timeout:  defaultSweepTimeout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the sweep loop in its own goroutine. The loop exits when
// Stop is called or ctx is canceled. Start is safe to call once; repeated
// calls are no-ops.
func (s *Sweeper) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run(ctx)
	})
}

// Stop terminates the sweep loop and waits for an in-flight sweep to finish.
// Safe for repeated calls.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	if s.started.Load() {
		<-s.done
	}
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "session sweeper started",
		logger.Component("sweeper"),
		logger.Duration(s.interval),
	)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stop:
			s.logger.InfoContext(ctx, "session sweeper stopped", logger.Component("sweeper"))
			return
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "session sweeper stopped", logger.Component("sweeper"))
			return
		}
	}
}

// sweep runs one cleanup pass. Errors are logged, never escalated, so the
// periodic task survives transient store failures.
func (s *Sweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.manager.CleanupExpiredSessions(sweepCtx)
	if err != nil {
		s.logger.ErrorContext(ctx, "session cleanup failed",
			logger.Component("sweeper"),
			logger.Error(err),
		)
		return
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "session sweep completed",
			logger.Component("sweeper"),
			logger.Count(count),
		)
	}
}
