package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/company/orderhandler-ui/config"
	"github.com/company/orderhandler-ui/internal/adapters/sweeper"
	"github.com/company/orderhandler-ui/internal/domain/access"
	"github.com/company/orderhandler-ui/internal/observability/statsd"
	"github.com/company/orderhandler-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Access        *access.Resolver
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Sink returns the metrics sink as the emission interface, or nil when
// metrics are disabled. The typed-nil interface trap makes this explicit.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices initializes all application services from their adapters.
func NewServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	obs := buildObservability(logger, deps.Config.Observability)

	auth, err := BuildAuthService(AuthDeps{
		Auth:        deps.Config.Auth,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      logger,
		Metrics:     obs.Sink(),
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	resolver, err := buildAccessResolver(deps.Config.Access, deps.Config.Auth.LoginURL)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build access resolver: %w", err)
	}

	return ServiceContainer{
		Auth:          auth,
		Access:        resolver,
		Observability: obs,
	}, nil
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "orderhandler",
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// buildAccessResolver turns the declared rule pairs into a resolver,
// preserving declaration order. The default filter comes from configuration
// and is required there; an unprotected fallback never happens silently.
func buildAccessResolver(cfg config.AccessConfig, loginURL string) (*access.Resolver, error) {
	pairs, err := cfg.ParseRules()
	if err != nil {
		return nil, err
	}

	rules := make([]access.Rule, 0, len(pairs))
	for _, p := range pairs {
		filter, err := access.ByName(string(p.Filter), loginURL)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", p.Pattern, err)
		}
		rules = append(rules, access.Rule{Pattern: p.Pattern, Filter: filter})
	}

	defaultFilter, err := access.ByName(string(cfg.DefaultFilter), loginURL)
	if err != nil {
		return nil, fmt.Errorf("default filter: %w", err)
	}

	return access.NewResolver(rules, defaultFilter)
}

// ServiceOrchestrationConfig groups everything needed to run the enabled
// services until shutdown.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. It blocks until a shutdown signal is received or a service
// fails; on failure the remaining services are stopped before returning.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		runHTTPService(ctx, g, cfg, logger)
	}

	if enabled[config.ServiceModeSweeper] {
		runner, err := sweeper.NewRunner(sweeper.RunnerOptions{
			Client:  cfg.RedisClient,
			Auth:    cfg.Config.Auth,
			Config:  cfg.Config.Sweeper,
			Logger:  logger,
			Metrics: cfg.Services.Observability.Sink(),
		})
		if err != nil {
			return fmt.Errorf("wire sweeper: %w", err)
		}
		g.Go(func() error {
			logger.Info("starting session sweeper")
			return runner.Run(ctx)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
