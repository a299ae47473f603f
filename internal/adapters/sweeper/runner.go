// Package sweeper provides adapters for running the expired-session sweeper.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/company/orderhandler-ui/config"
	redisadapter "github.com/company/orderhandler-ui/internal/adapters/redis"
	"github.com/company/orderhandler-ui/internal/observability/statsd"
	"github.com/company/orderhandler-ui/internal/ports"
	"github.com/company/orderhandler-ui/internal/service"
)

// Runner provides a simple adapter to run the sweep loop.
// It constructs the sweeper service and runs until cancelled.
type Runner struct {
	sweeper *service.SweeperService
	logger  *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Client  goredis.UniversalClient
	Auth    config.AuthConfig
	Config  config.SweeperConfig
	Logger  *slog.Logger
	Metrics statsd.Sink

	// Sessions overrides the store wired from Client, for testing/decoupling.
	Sessions ports.SessionStore
}

// NewRunner creates a new sweeper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	sessions := opts.Sessions
	if sessions == nil {
		sessions = redisadapter.NewSessionStore(redisadapter.SessionStoreOptions{
			Client:          opts.Client,
			IdleTimeout:     opts.Auth.IdleTimeout,
			AbsoluteTimeout: opts.Auth.AbsoluteTimeout,
			ScanCount:       opts.Config.ScanCount,
			Logger:          opts.Logger,
		})
	}

	sweeper, err := service.NewSweeperService(service.SweeperServiceOptions{
		Sessions: sessions,
		Config:   opts.Config,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire sweeper service: %w", err)
	}

	return &Runner{
		sweeper: sweeper,
		logger:  opts.Logger,
	}, nil
}

func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.Client == nil && opts.Sessions == nil {
		return errors.New("redis client is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

// Run starts the sweep loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting sweeper runner")
	return r.sweeper.Run(ctx)
}
