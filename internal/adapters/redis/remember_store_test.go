package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/company/orderhandler-ui/internal/errors"
	"github.com/company/orderhandler-ui/internal/testutil"
)

func TestRememberMeStoreIssueAndRedeem(t *testing.T) {
	_, client := testutil.NewMiniRedis(t)
	store := NewRememberMeStore(client, time.Hour)
	ctx := context.Background()

	token, err := store.Issue(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := store.Redeem(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestRememberMeStoreTokensAreDistinct(t *testing.T) {
	_, client := testutil.NewMiniRedis(t)
	store := NewRememberMeStore(client, time.Hour)
	ctx := context.Background()

	first, err := store.Issue(ctx, "alice")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "alice")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRememberMeStoreUnknownToken(t *testing.T) {
	_, client := testutil.NewMiniRedis(t)
	store := NewRememberMeStore(client, time.Hour)

	_, err := store.Redeem(context.Background(), "no-such-token")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRememberMeStoreExpiry(t *testing.T) {
	mr, client := testutil.NewMiniRedis(t)
	store := NewRememberMeStore(client, time.Minute)
	ctx := context.Background()

	token, err := store.Issue(ctx, "alice")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Redeem(ctx, token)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRememberMeStoreRevokeIsIdempotent(t *testing.T) {
	_, client := testutil.NewMiniRedis(t)
	store := NewRememberMeStore(client, time.Hour)
	ctx := context.Background()

	token, err := store.Issue(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, token))
	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Redeem(ctx, token)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRememberMeStoreKeyNamespace(t *testing.T) {
	mr, client := testutil.NewMiniRedis(t)
	store := NewRememberMeStore(client, time.Hour)

	token, err := store.Issue(context.Background(), "alice")
	require.NoError(t, err)

	assert.True(t, mr.Exists(RememberKeyPrefix+token))
}
