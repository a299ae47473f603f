package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
	"github.com/company/orderhandler-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialRealm = (*StaticRealm)(nil)
	_ ports.PasswordHasher  = (*PlainHasher)(nil)
	_ ports.SessionStore    = (*MemorySessionStore)(nil)
	_ ports.SessionRegistry = (*MemoryRegistry)(nil)
	_ ports.SecurityCache   = (*MemoryCache)(nil)
	_ ports.RememberMeStore = (*MemoryRememberStore)(nil)
)

// StaticRealm serves credential records from a fixed map.
type StaticRealm struct {
	Records map[string]domainauth.StoredCredential

	// Err, when set, is returned by every lookup. Simulates an unreachable
	// credential store.
	Err error
}

// NewStaticRealm creates a StaticRealm holding the given records.
func NewStaticRealm(records ...domainauth.StoredCredential) *StaticRealm {
	m := make(map[string]domainauth.StoredCredential, len(records))
	for _, r := range records {
		m[r.Username] = r
	}
	return &StaticRealm{Records: m}
}

func (r *StaticRealm) FindCredentialRecord(_ context.Context, username string) (domainauth.StoredCredential, error) {
	if r.Err != nil {
		return domainauth.StoredCredential{}, r.Err
	}
	rec, ok := r.Records[username]
	if !ok {
		return domainauth.StoredCredential{}, apperrors.NotFound("Credential record not found")
	}
	return rec, nil
}

// PlainHasher "hashes" by storing the secret bytes directly. It keeps service
// tests fast while preserving the record shape real hashing produces.
type PlainHasher struct {
	VerifyCalls int
}

// PlainRecord builds the stored record PlainHasher verifies for a secret.
func PlainRecord(username, secret string) domainauth.StoredCredential {
	return domainauth.StoredCredential{
		Username:   username,
		Hash:       []byte(secret),
		PublicSalt: []byte("public-salt"),
		Algorithm:  "plain",
		Iterations: 1,
	}
}

func (h *PlainHasher) Hash(secret string) (domainauth.HashedSecret, error) {
	return domainauth.HashedSecret{
		Hash:       []byte(secret),
		PublicSalt: []byte("public-salt"),
		Algorithm:  "plain",
		Iterations: 1,
	}, nil
}

func (h *PlainHasher) Verify(secret string, record domainauth.StoredCredential) (bool, error) {
	h.VerifyCalls++
	if len(record.Hash) == 0 {
		return false, apperrors.MalformedRecord("hash")
	}
	return string(record.Hash) == secret, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	Sessions map[string]domainauth.Session

	// Now is the clock used for stamps and expiry; defaults to time.Now.
	Now func() time.Time

	// FailCreate/FailSave/FailDestroy, when set, are returned by the
	// corresponding operation. Simulates store outages mid-flow.
	FailCreate  error
	FailSave    error
	FailDestroy error

	nextID int
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		Sessions: make(map[string]domainauth.Session),
		Now:      time.Now,
	}
}

func (m *MemorySessionStore) Create(_ context.Context) (domainauth.Session, error) {
	if m.FailCreate != nil {
		return domainauth.Session{}, m.FailCreate
	}
	m.nextID++
	now := m.Now()
	sess := domainauth.Session{
		ID:          fmt.Sprintf("sess-%d", m.nextID),
		Attributes:  map[string]string{},
		CreatedAt:   now,
		LastAccess:  now,
		IdleTimeout: 30 * time.Minute,
		ExpiresAt:   now.Add(8 * time.Hour),
	}
	m.Sessions[sess.ID] = sess
	return sess, nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := m.Sessions[id]
	if !ok {
		return domainauth.Session{}, apperrors.NotFound("Session not found")
	}
	if sess.Expired(m.Now()) {
		delete(m.Sessions, id)
		return domainauth.Session{}, apperrors.NotFound("Session not found")
	}
	sess.LastAccess = m.Now()
	m.Sessions[id] = sess
	return sess, nil
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.FailSave != nil {
		return m.FailSave
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.Sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) SetAttribute(ctx context.Context, id, key, value string) error {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess.Attributes == nil {
		sess.Attributes = map[string]string{}
	}
	sess.Attributes[key] = value
	m.Sessions[id] = sess
	return nil
}

func (m *MemorySessionStore) GetAttribute(ctx context.Context, id, key string) (string, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return sess.Attributes[key], nil
}

func (m *MemorySessionStore) AttributeKeys(ctx context.Context, id string) ([]string, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(sess.Attributes))
	for k := range sess.Attributes {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *MemorySessionStore) Destroy(_ context.Context, id string) error {
	if m.FailDestroy != nil {
		return m.FailDestroy
	}
	delete(m.Sessions, id)
	return nil
}

func (m *MemorySessionStore) Sweep(_ context.Context) (int, error) {
	removed := 0
	now := m.Now()
	for id, sess := range m.Sessions {
		if sess.Expired(now) {
			delete(m.Sessions, id)
			removed++
		}
	}
	return removed, nil
}

// MemoryRegistry records per-username session ids, newest first.
type MemoryRegistry struct {
	Lists map[string][]string

	// Err, when set, is returned by Append.
	Err error
}

// NewMemoryRegistry creates an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{Lists: make(map[string][]string)}
}

func (m *MemoryRegistry) Append(_ context.Context, username, sessionID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Lists[username] = append([]string{sessionID}, m.Lists[username]...)
	return nil
}

func (m *MemoryRegistry) Recent(_ context.Context, username string, n int) ([]string, error) {
	list := m.Lists[username]
	if n > 0 && n < len(list) {
		list = list[:n]
	}
	return append([]string(nil), list...), nil
}

// MemoryCache is an in-memory security cache. TTLs are ignored.
type MemoryCache struct {
	Entries map[string][]byte
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{Entries: make(map[string][]byte)}
}

func (m *MemoryCache) Put(_ context.Context, key string, blob []byte, _ time.Duration) error {
	m.Entries[key] = append([]byte(nil), blob...)
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	blob, ok := m.Entries[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	delete(m.Entries, key)
	return nil
}

// MemoryRememberStore issues predictable remember-me tokens.
type MemoryRememberStore struct {
	Tokens map[string]string

	nextID int
}

// NewMemoryRememberStore creates an empty MemoryRememberStore.
func NewMemoryRememberStore() *MemoryRememberStore {
	return &MemoryRememberStore{Tokens: make(map[string]string)}
}

func (m *MemoryRememberStore) Issue(_ context.Context, username string) (string, error) {
	m.nextID++
	token := fmt.Sprintf("remember-%d", m.nextID)
	m.Tokens[token] = username
	return token, nil
}

func (m *MemoryRememberStore) Redeem(_ context.Context, token string) (string, error) {
	username, ok := m.Tokens[token]
	if !ok {
		return "", apperrors.NotFound("Remember-me token not found")
	}
	return username, nil
}

func (m *MemoryRememberStore) Revoke(_ context.Context, token string) error {
	delete(m.Tokens, token)
	return nil
}
