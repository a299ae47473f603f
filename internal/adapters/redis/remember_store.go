package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/company/orderhandler-ui/internal/errors"
)

// RememberKeyPrefix is the namespace for remember-me tokens.
const RememberKeyPrefix = "remember:"

// RememberMeStore issues opaque remember-me tokens resolvable back to a
// username. Tokens are longer-lived than sessions and grant only the
// reduced-privilege "remembered" state, never full authentication.
type RememberMeStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRememberMeStore creates a remember-me token store with the given token
// lifetime.
func NewRememberMeStore(client redis.UniversalClient, ttl time.Duration) *RememberMeStore {
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	return &RememberMeStore{client: client, ttl: ttl}
}

// Issue creates a fresh token bound to username.
func (s *RememberMeStore) Issue(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", apperrors.Validation("username is required")
	}

	token := uuid.NewString()
	if err := s.client.Set(ctx, RememberKeyPrefix+token, username, s.ttl).Err(); err != nil {
		return "", storeErr("remember-me issue", err)
	}
	return token, nil
}

// Redeem resolves a token to its username; unknown or expired tokens report
// NotFound.
func (s *RememberMeStore) Redeem(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.NotFound("remember-me token not found")
	}

	username, err := s.client.Get(ctx, RememberKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.NotFound("remember-me token not found")
	}
	if err != nil {
		return "", storeErr("remember-me redeem", err)
	}
	return username, nil
}

// Revoke invalidates a token. Idempotent.
func (s *RememberMeStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, RememberKeyPrefix+token).Err(); err != nil {
		return storeErr("remember-me revoke", err)
	}
	return nil
}
