package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/company/orderhandler-ui/config"
	"github.com/company/orderhandler-ui/internal/adapters/postgres"
	redisadapter "github.com/company/orderhandler-ui/internal/adapters/redis"
	"github.com/company/orderhandler-ui/internal/observability/statsd"
	"github.com/company/orderhandler-ui/internal/service"
)

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	Metrics     statsd.Sink
}

// BuildAuthService wires the credential realm, hasher, and session adapters
// into an AuthService.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	hasher, err := service.NewHasher(service.HasherConfig{
		Iterations:  deps.Auth.HashIterations,
		PrivateSalt: []byte(deps.Auth.PrivateSalt),
	})
	if err != nil {
		return nil, fmt.Errorf("build hasher: %w", err)
	}

	sessions := redisadapter.NewSessionStore(redisadapter.SessionStoreOptions{
		Client:          deps.RedisClient,
		IdleTimeout:     deps.Auth.IdleTimeout,
		AbsoluteTimeout: deps.Auth.AbsoluteTimeout,
		Logger:          deps.Logger,
	})

	svc, err := service.NewAuthService(service.AuthServiceOptions{
		Realm:      postgres.NewCredentialRepo(deps.DB),
		Hasher:     hasher,
		Sessions:   sessions,
		Registry:   redisadapter.NewSessionRegistry(deps.RedisClient, deps.Auth.RegistryCap),
		Cache:      redisadapter.NewSecurityCache(deps.RedisClient),
		RememberMe: redisadapter.NewRememberMeStore(deps.RedisClient, deps.Auth.RememberTTL),
		Logger:     deps.Logger,
		Metrics:    deps.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}
	return svc, nil
}
