package redis

// Package redis provides Redis-based adapters for the session and security
// cache subsystem. All adapters share one backing store but live in disjoint
// key namespaces so they can coexist without collisions.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
)

// SessionKeyPrefix is the key namespace for session records, distinct from
// the security cache's namespace in the same store.
const SessionKeyPrefix = "session:"

const evictTimeout = 5 * time.Second

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Client redis.UniversalClient

	// IdleTimeout and AbsoluteTimeout apply to sessions this store creates.
	IdleTimeout     time.Duration
	AbsoluteTimeout time.Duration

	// Prefix overrides the default session key namespace.
	Prefix string

	// ScanCount is the COUNT hint per SCAN page during sweeps.
	ScanCount int

	// Logger is optional; eviction failures are logged through it.
	Logger *slog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// SessionStore is a Redis-backed distributed session store. Keys get a TTL
// at the absolute expiry, so the backing store reclaims sessions on its own;
// the idle timeout is enforced on read and by the periodic sweep.
type SessionStore struct {
	client    redis.UniversalClient
	prefix    string
	idle      time.Duration
	absolute  time.Duration
	scanCount int64
	logger    *slog.Logger
	now       func() time.Time
}

// NewSessionStore creates a Redis-based session store.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = SessionKeyPrefix
	}
	scanCount := int64(opts.ScanCount)
	if scanCount <= 0 {
		scanCount = 250
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &SessionStore{
		client:    opts.Client,
		prefix:    prefix,
		idle:      opts.IdleTimeout,
		absolute:  opts.AbsoluteTimeout,
		scanCount: scanCount,
		logger:    opts.Logger,
		now:       now,
	}
}

// Create allocates a new session with an unpredictable identifier and the
// store's default timeouts.
func (s *SessionStore) Create(ctx context.Context) (domainauth.Session, error) {
	now := s.now()
	sess := domainauth.Session{
		ID:          uuid.NewString(),
		Attributes:  map[string]string{},
		CreatedAt:   now,
		LastAccess:  now,
		IdleTimeout: s.idle,
		ExpiresAt:   now.Add(s.absolute),
	}

	if err := s.Save(ctx, sess); err != nil {
		return domainauth.Session{}, err
	}
	return sess, nil
}

// Save persists the session with a TTL at its absolute expiry.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return apperrors.Validation("session ID cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return apperrors.SessionExpired()
	}

	if err := s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err(); err != nil {
		return storeErr("set session", err)
	}
	return nil
}

// Get fetches a live session and touches its last-access time. Idle- or
// absolute-expired sessions report NotFound; removal is scheduled off the
// caller's path rather than awaited.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return domainauth.Session{}, err
	}

	now := s.now()
	if sess.Expired(now) {
		s.evictAsync(id)
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	// Sliding idle window: a successful read counts as activity.
	sess.LastAccess = now
	if err := s.Save(ctx, sess); err != nil {
		return domainauth.Session{}, err
	}
	return sess, nil
}

// SetAttribute sets one attribute. Concurrent writers to the same session
// resolve last-writer-wins; the backing store's per-key atomicity is the only
// synchronization relied upon.
func (s *SessionStore) SetAttribute(ctx context.Context, id, key, value string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess.Attributes == nil {
		sess.Attributes = map[string]string{}
	}
	sess.Attributes[key] = value
	return s.Save(ctx, sess)
}

// GetAttribute reads one attribute; an absent key is ("", nil).
func (s *SessionStore) GetAttribute(ctx context.Context, id, key string) (string, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return sess.Attributes[key], nil
}

// AttributeKeys lists the session's attribute keys.
func (s *SessionStore) AttributeKeys(ctx context.Context, id string) ([]string, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(sess.Attributes))
	for k := range sess.Attributes {
		keys = append(keys, k)
	}
	return keys, nil
}

// Destroy removes the session record immediately. Idempotent.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}

// Sweep scans the session namespace and removes records past their idle or
// absolute timeout. Unreadable records are removed as well: they can never be
// served again.
func (s *SessionStore) Sweep(ctx context.Context) (int, error) {
	removed := 0
	now := s.now()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", s.scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		data, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return removed, storeErr("sweep read", err)
		}

		var sess domainauth.Session
		corrupt := json.Unmarshal([]byte(data), &sess) != nil
		if !corrupt && !sess.Expired(now) {
			continue
		}

		if err := s.client.Del(ctx, key).Err(); err != nil {
			return removed, storeErr("sweep delete", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, storeErr("sweep scan", err)
	}

	return removed, nil
}

// load fetches and decodes a raw session record without expiry handling.
func (s *SessionStore) load(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return domainauth.Session{}, apperrors.NotFound("session not found")
	}
	if err != nil {
		return domainauth.Session{}, storeErr("get session", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return domainauth.Session{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "unmarshal session")
	}
	return sess, nil
}

// evictAsync schedules removal of an expired session without blocking the
// caller. Failures are logged; the sweep will retry eventually.
func (s *SessionStore) evictAsync(id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), evictTimeout)
		defer cancel()

		if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil && s.logger != nil {
			s.logger.Warn("evict expired session failed", "session_id", id, "error", err)
		}
	}()
}

func storeErr(op string, err error) error {
	return apperrors.StoreUnavailable(fmt.Errorf("%s: %w", op, err))
}
