package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/company/orderhandler-ui/internal/errors"
)

// RegistryKeyPrefix is the namespace for per-username session-id lists.
const RegistryKeyPrefix = "sessions:user:"

// SessionRegistry records session identifiers per username, newest first.
// It is an append-only audit trail for operators; entries are not removed
// when sessions end, only trimmed past the cap.
type SessionRegistry struct {
	client redis.UniversalClient
	cap    int64
}

// NewSessionRegistry creates a session registry. cap bounds each user's list.
func NewSessionRegistry(client redis.UniversalClient, cap int) *SessionRegistry {
	if cap < 1 {
		cap = 1
	}
	return &SessionRegistry{client: client, cap: int64(cap)}
}

// Append records a session identifier for username.
func (r *SessionRegistry) Append(ctx context.Context, username, sessionID string) error {
	if username == "" || sessionID == "" {
		return apperrors.Validation("username and session ID are required")
	}

	key := RegistryKeyPrefix + username
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, sessionID)
	pipe.LTrim(ctx, key, 0, r.cap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("registry append", err)
	}
	return nil
}

// Recent returns up to n most recently recorded session identifiers for
// username, newest first.
func (r *SessionRegistry) Recent(ctx context.Context, username string, n int) ([]string, error) {
	if username == "" {
		return nil, apperrors.Validation("username is required")
	}
	if n < 1 {
		n = 1
	}

	ids, err := r.client.LRange(ctx, RegistryKeyPrefix+username, 0, int64(n)-1).Result()
	if err != nil {
		return nil, storeErr("registry read", err)
	}
	return ids, nil
}
