package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/company/orderhandler-ui/internal/errors"
	"github.com/company/orderhandler-ui/internal/testutil"
)

func TestSessionRegistryAppendAndRecent(t *testing.T) {
	_, client := testutil.NewMiniRedis(t)
	registry := NewSessionRegistry(client, 100)
	ctx := context.Background()

	require.NoError(t, registry.Append(ctx, "mjamali", "sess-1"))
	require.NoError(t, registry.Append(ctx, "mjamali", "sess-2"))
	require.NoError(t, registry.Append(ctx, "mjamali", "sess-3"))

	ids, err := registry.Recent(ctx, "mjamali", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"sess-3", "sess-2"}, ids, "newest first")

	ids, err = registry.Recent(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSessionRegistryTrimsPastCap(t *testing.T) {
	_, client := testutil.NewMiniRedis(t)
	registry := NewSessionRegistry(client, 5)
	ctx := context.Background()

	for i := range 20 {
		require.NoError(t, registry.Append(ctx, "mjamali", fmt.Sprintf("sess-%d", i)))
	}

	ids, err := registry.Recent(ctx, "mjamali", 100)
	require.NoError(t, err)
	assert.Len(t, ids, 5)
	assert.Equal(t, "sess-19", ids[0])
}

func TestRememberMeStoreIssueRedeem(t *testing.T) {
	_, client := testutil.NewMiniRedis(t)
	store := NewRememberMeStore(client, time.Hour)
	ctx := context.Background()

	token, err := store.Issue(ctx, "mjamali")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := store.Redeem(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "mjamali", username)

	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Redeem(ctx, token)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRememberMeStoreTokenExpiry(t *testing.T) {
	mr, client := testutil.NewMiniRedis(t)
	store := NewRememberMeStore(client, time.Hour)
	ctx := context.Background()

	token, err := store.Issue(ctx, "mjamali")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Redeem(ctx, token)
	assert.True(t, apperrors.IsNotFound(err))
}
