package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
)

// CredentialRealm looks up stored credential records. The underlying store is
// an external collaborator; exactly one lookup is issued per authentication
// attempt. A missing user is reported via apperrors.NotFound.
type CredentialRealm interface {
	FindCredentialRecord(ctx context.Context, username string) (domainauth.StoredCredential, error)
}

// PasswordHasher computes and verifies salted, iterated credential hashes.
// Hashing is CPU-bound and deliberately slow; callers must not hold shared
// locks across calls.
type PasswordHasher interface {
	// Hash derives a hash of secret under a fresh public salt.
	Hash(secret string) (domainauth.HashedSecret, error)
	// Verify reports whether secret matches the stored record. A mismatch is
	// (false, nil); an error is returned only for malformed records.
	Verify(secret string, record domainauth.StoredCredential) (bool, error)
}

// SessionStore is the distributed session store. Implementations surface
// backing-store connectivity failures as apperrors.StoreUnavailable and
// missing or expired sessions as apperrors.NotFound; retry policy belongs to
// the caller.
type SessionStore interface {
	// Create allocates a session with a fresh unpredictable identifier and
	// default timeouts.
	Create(ctx context.Context) (domainauth.Session, error)
	// Get fetches a live session and touches its last-access time. Expired
	// sessions report NotFound; eviction happens off the caller's path.
	Get(ctx context.Context, id string) (domainauth.Session, error)
	// Save persists the full session record.
	Save(ctx context.Context, sess domainauth.Session) error
	// SetAttribute sets one attribute on the session.
	SetAttribute(ctx context.Context, id, key, value string) error
	// GetAttribute reads one attribute; ("", nil) when the key is absent.
	GetAttribute(ctx context.Context, id, key string) (string, error)
	// AttributeKeys lists the session's attribute keys.
	AttributeKeys(ctx context.Context, id string) ([]string, error)
	// Destroy removes the session. Destroying an absent id is not an error.
	Destroy(ctx context.Context, id string) error
	// Sweep removes sessions past their idle or absolute timeout and returns
	// how many were removed.
	Sweep(ctx context.Context) (int, error)
}

// SessionRegistry tracks session identifiers per username. The list is an
// append-only audit trail for operators; eventual consistency is acceptable.
type SessionRegistry interface {
	Append(ctx context.Context, username, sessionID string) error
	Recent(ctx context.Context, username string, n int) ([]string, error)
}

// SecurityCache caches serialized security-context blobs across requests,
// in a key namespace distinct from session keys.
type SecurityCache interface {
	Put(ctx context.Context, key string, blob []byte, ttl time.Duration) error
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// RememberMeStore issues and redeems long-lived remember-me tokens, distinct
// from primary sessions, granting reduced-privilege access.
type RememberMeStore interface {
	// Issue creates a token bound to username.
	Issue(ctx context.Context, username string) (string, error)
	// Redeem resolves a token back to its username; apperrors.NotFound for
	// unknown or expired tokens.
	Redeem(ctx context.Context, token string) (string, error)
	// Revoke invalidates a token. Revoking an absent token is not an error.
	Revoke(ctx context.Context, token string) error
}
