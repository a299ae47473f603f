package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/company/orderhandler-ui/internal/testutil"
)

func TestSecurityCachePutGetDelete(t *testing.T) {
	_, client := testutil.NewMiniRedis(t)
	cache := NewSecurityCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "sess-1", []byte(`{"uid":"mjamali"}`), time.Minute))

	blob, err := cache.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"uid":"mjamali"}`, string(blob))

	require.NoError(t, cache.Delete(ctx, "sess-1"))

	blob, err = cache.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, blob, "miss is nil, not an error")

	// Idempotent delete
	require.NoError(t, cache.Delete(ctx, "sess-1"))
}

func TestSecurityCacheExpiry(t *testing.T) {
	mr, client := testutil.NewMiniRedis(t)
	cache := NewSecurityCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "sess-1", []byte("blob"), time.Minute))
	mr.FastForward(2 * time.Minute)

	blob, err := cache.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestSecurityCacheNamespaceIsDisjointFromSessions(t *testing.T) {
	mr, client := testutil.NewMiniRedis(t)
	cache := NewSecurityCache(client)
	store := NewSessionStore(SessionStoreOptions{
		Client:          client,
		IdleTimeout:     30 * time.Minute,
		AbsoluteTimeout: time.Hour,
	})
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, sess.ID, []byte("ctx"), time.Minute))

	// Both records coexist under their own prefixes.
	assert.True(t, mr.Exists(SessionKeyPrefix+sess.ID))
	assert.True(t, mr.Exists(CacheKeyPrefix+sess.ID))
}
