package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/company/orderhandler-ui/config"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
	"github.com/company/orderhandler-ui/internal/observability/metrics"
	"github.com/company/orderhandler-ui/internal/observability/statsd"
	"github.com/company/orderhandler-ui/internal/ports"
)

// SweeperServiceOptions groups dependencies for SweeperService.
type SweeperServiceOptions struct {
	Sessions ports.SessionStore   // Required: store being swept
	Config   config.SweeperConfig // Required: sweeper configuration
	Logger   *slog.Logger         // Optional: structured logger
	Metrics  statsd.Sink          // Optional: metrics sink (StatsD-compatible)
}

// SweeperService periodically removes expired sessions from the store.
// Expiry is already enforced on the read path; the sweeper reclaims sessions
// that are never read again.
type SweeperService struct {
	sessions ports.SessionStore
	config   config.SweeperConfig
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewSweeperService constructs a new SweeperService.
func NewSweeperService(opts SweeperServiceOptions) (*SweeperService, error) {
	if opts.Sessions == nil {
		return nil, errors.New("SessionStore is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweeper_service")
	}

	return &SweeperService{
		sessions: opts.Sessions,
		config:   opts.Config,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// Run starts the sweep loop and runs until the context is cancelled.
// Ticks are handled on the loop goroutine, so at most one sweep is in flight;
// a sweep running long simply delays the next tick. A failed tick is logged
// and the loop keeps running. Returns nil on graceful shutdown.
func (s *SweeperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting session sweeper", "interval", s.config.Interval)
	}

	// Jitter so multiple instances started together do not sweep in lockstep
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.sweepTick(ctx)

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "session sweeper stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			s.sweepTick(ctx)
		}
	}
}

// SweepOnce performs a single sweep and returns the number of sessions
// removed. Failures are reported as SweepFailure with the cause attached.
func (s *SweeperService) SweepOnce(ctx context.Context) (int, error) {
	removed, err := s.sessions.Sweep(ctx)
	if err != nil {
		return removed, apperrors.SweepFailure(err)
	}
	return removed, nil
}

func (s *SweeperService) sweepTick(ctx context.Context) {
	start := time.Now()
	removed, err := s.SweepOnce(ctx)
	elapsed := time.Since(start)

	metrics.EmitSweep(s.metrics, metrics.SweepMetric{
		Removed:  removed,
		Duration: elapsed,
		Err:      suppressContextCancellation(err),
	})

	switch {
	case isContextCancellation(err):
		if s.logger != nil {
			s.logger.Debug("sweep cancelled by context", "error", err)
		}
	case err != nil:
		if s.logger != nil {
			s.logger.Error("sweep failed", "error", err)
		}
	case removed > 0 && s.logger != nil:
		s.logger.InfoContext(ctx, "swept expired sessions", "removed", removed, "elapsed", elapsed)
	}
}

// waitWithJitter delays up to 10% of the interval before the first sweep.
func (s *SweeperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		// Graceful shutdown during jitter
	}
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func suppressContextCancellation(err error) error {
	if isContextCancellation(err) {
		return nil
	}
	return err
}
