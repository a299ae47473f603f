package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/company/orderhandler-ui/internal/domain/auth"
	apperrors "github.com/company/orderhandler-ui/internal/errors"
	gomocks "github.com/company/orderhandler-ui/internal/mocks"
	mocks "github.com/company/orderhandler-ui/internal/mocks/auth"
)

type authFixture struct {
	svc      *AuthService
	realm    *mocks.StaticRealm
	hasher   *mocks.PlainHasher
	sessions *mocks.MemorySessionStore
	registry *mocks.MemoryRegistry
	cache    *mocks.MemoryCache
	remember *mocks.MemoryRememberStore
}

func newAuthFixture(t *testing.T, records ...domainauth.StoredCredential) *authFixture {
	t.Helper()

	f := &authFixture{
		realm:    mocks.NewStaticRealm(records...),
		hasher:   &mocks.PlainHasher{},
		sessions: mocks.NewMemorySessionStore(),
		registry: mocks.NewMemoryRegistry(),
		cache:    mocks.NewMemoryCache(),
		remember: mocks.NewMemoryRememberStore(),
	}

	svc, err := NewAuthService(AuthServiceOptions{
		Realm:      f.realm,
		Hasher:     f.hasher,
		Sessions:   f.sessions,
		Registry:   f.registry,
		Cache:      f.cache,
		RememberMe: f.remember,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewAuthService_RequiresDependencies(t *testing.T) {
	_, err := NewAuthService(AuthServiceOptions{})
	require.Error(t, err)

	_, err = NewAuthService(AuthServiceOptions{Realm: mocks.NewStaticRealm()})
	require.Error(t, err)

	_, err = NewAuthService(AuthServiceOptions{
		Realm:  mocks.NewStaticRealm(),
		Hasher: &mocks.PlainHasher{},
	})
	require.Error(t, err)
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	sess, err := f.svc.Authenticate(ctx, "alice", "s3cret", "")
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.UID())
	assert.False(t, sess.IsAnonymous())

	// The new session id is published to the per-username list.
	recent, err := f.registry.Recent(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{sess.ID}, recent)
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	// Establish a pre-login session; a failed attempt must not disturb it.
	anon, err := f.svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, "alice", "wrong", anon.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidCredentials(err))

	got, err := f.svc.GetSession(ctx, anon.ID)
	require.NoError(t, err)
	assert.Equal(t, anon.ID, got.ID)
	assert.True(t, got.IsAnonymous())
}

func TestAuthService_Authenticate_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Authenticate(context.Background(), "nobody", "whatever", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestAuthService_Authenticate_UnknownUserBurnsVerify(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	_, err := f.svc.Authenticate(ctx, "alice", "wrong", "")
	require.Error(t, err)
	knownCalls := f.hasher.VerifyCalls

	_, err = f.svc.Authenticate(ctx, "nobody", "wrong", "")
	require.Error(t, err)

	// Unknown usernames cost the same number of derivations as wrong
	// passwords, so response timing does not leak which usernames exist.
	assert.Equal(t, knownCalls, f.hasher.VerifyCalls-knownCalls)
}

func TestAuthService_Authenticate_RotatesSessionID(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	anon, err := f.svc.StartSession(ctx)
	require.NoError(t, err)

	sess, err := f.svc.Authenticate(ctx, "alice", "s3cret", anon.ID)
	require.NoError(t, err)

	assert.NotEqual(t, anon.ID, sess.ID)

	// The pre-login identifier is dead once login returns.
	_, err = f.svc.GetSession(ctx, anon.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAuthService_Authenticate_PreservesAttributes(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	anon, err := f.svc.StartSession(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.SetAttribute(ctx, anon.ID, "cart", "pid-17,pid-32"))
	require.NoError(t, f.svc.SetAttribute(ctx, anon.ID, "locale", "en-GB"))

	sess, err := f.svc.Authenticate(ctx, "alice", "s3cret", anon.ID)
	require.NoError(t, err)

	cart, err := f.svc.GetAttribute(ctx, sess.ID, "cart")
	require.NoError(t, err)
	assert.Equal(t, "pid-17,pid-32", cart)

	locale, err := f.svc.GetAttribute(ctx, sess.ID, "locale")
	require.NoError(t, err)
	assert.Equal(t, "en-GB", locale)

	assert.Equal(t, "alice", sess.UID())
}

func TestAuthService_Authenticate_StaleSessionID(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	// A cookie pointing at a session the store no longer has.
	sess, err := f.svc.Authenticate(ctx, "alice", "s3cret", "sess-gone")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.UID())
}

func TestAuthService_Authenticate_StoreUnavailable(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	f.realm.Err = apperrors.StoreUnavailable(errors.New("dial tcp: connection refused"))

	_, err := f.svc.Authenticate(context.Background(), "alice", "s3cret", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreUnavailable(err))
	assert.False(t, apperrors.IsInvalidCredentials(err))
}

func TestAuthService_Authenticate_MalformedRecord(t *testing.T) {
	record := mocks.PlainRecord("alice", "s3cret")
	record.Hash = nil
	f := newAuthFixture(t, record)

	_, err := f.svc.Authenticate(context.Background(), "alice", "s3cret", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformedRecord(err))
}

func TestAuthService_Authenticate_DestroyOldFails(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	anon, err := f.svc.StartSession(ctx)
	require.NoError(t, err)

	f.sessions.FailDestroy = apperrors.StoreUnavailable(errors.New("write refused"))
	_, err = f.svc.Authenticate(ctx, "alice", "s3cret", anon.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsStoreUnavailable(err))
}

func TestAuthService_Authenticate_RegistryFailureDoesNotBlockLogin(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	f.registry.Err = apperrors.StoreUnavailable(errors.New("lpush failed"))

	sess, err := f.svc.Authenticate(context.Background(), "alice", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.UID())
}

func TestAuthService_Authenticate_GomockRealm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	realm := gomocks.NewMockCredentialRealm(ctrl)
	realm.EXPECT().
		FindCredentialRecord(gomock.Any(), "alice").
		Return(mocks.PlainRecord("alice", "s3cret"), nil).
		Times(1)

	svc, err := NewAuthService(AuthServiceOptions{
		Realm:    realm,
		Hasher:   &mocks.PlainHasher{},
		Sessions: mocks.NewMemorySessionStore(),
	})
	require.NoError(t, err)

	// Exactly one credential lookup per authentication attempt.
	sess, err := svc.Authenticate(context.Background(), "alice", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.UID())
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	sess, err := f.svc.Authenticate(ctx, "alice", "s3cret", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, sess.ID))
	_, err = f.svc.GetSession(ctx, sess.ID)
	assert.True(t, apperrors.IsNotFound(err))

	// Idempotent: logging out again, or with no session at all, is fine.
	require.NoError(t, f.svc.Logout(ctx, sess.ID))
	require.NoError(t, f.svc.Logout(ctx, ""))
}

func TestAuthService_Subject_CachedAndInvalidated(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	sess, err := f.svc.Authenticate(ctx, "alice", "s3cret", "")
	require.NoError(t, err)

	sub, err := f.svc.Subject(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub.UID)
	assert.Contains(t, f.cache.Entries, sess.ID)

	// Served from cache even if the record changes underneath.
	f.cache.Entries[sess.ID] = []byte(`{"uid":"cached-alice"}`)
	sub, err = f.svc.Subject(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "cached-alice", sub.UID)

	// Logout drops the cached subject.
	require.NoError(t, f.svc.Logout(ctx, sess.ID))
	assert.NotContains(t, f.cache.Entries, sess.ID)
}

func TestAuthService_Subject_CorruptCacheEntryRebuilt(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	sess, err := f.svc.Authenticate(ctx, "alice", "s3cret", "")
	require.NoError(t, err)

	f.cache.Entries[sess.ID] = []byte("{not json")
	sub, err := f.svc.Subject(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub.UID)
	assert.JSONEq(t, `{"uid":"alice","remembered":false}`, string(f.cache.Entries[sess.ID]))
}

func TestAuthService_RememberMe_RoundTrip(t *testing.T) {
	f := newAuthFixture(t, mocks.PlainRecord("alice", "s3cret"))
	ctx := context.Background()

	token, err := f.svc.IssueRememberMe(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := f.svc.RedeemRememberMe(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	require.NoError(t, f.svc.RevokeRememberMe(ctx, token))
	_, err = f.svc.RedeemRememberMe(ctx, token)
	assert.True(t, apperrors.IsNotFound(err))

	// Revoking an absent token is not an error.
	require.NoError(t, f.svc.RevokeRememberMe(ctx, token))
}
