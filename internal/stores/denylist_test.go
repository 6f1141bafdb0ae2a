package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDenylistRevokeAndCheck(t *testing.T) {
	mr, rdb := newTestRedis(t)
	d := NewDenylist(rdb, "")
	ctx := context.Background()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", 10*time.Minute))

	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	// The entry carries exactly the remaining lifetime it was given.
	require.InDelta(t, (10 * time.Minute).Seconds(), mr.TTL("auth:denylist:jti-1").Seconds(), 1)
}

func TestDenylistEntryExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	d := NewDenylist(rdb, "")
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Minute))

	mr.FastForward(61 * time.Second)

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestDenylistSkipsExpiredTokens(t *testing.T) {
	_, rdb := newTestRedis(t)
	d := NewDenylist(rdb, "")
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", 0))
	require.NoError(t, d.Revoke(ctx, "jti-2", -time.Minute))

	for _, jti := range []string{"jti-1", "jti-2"} {
		revoked, err := d.IsRevoked(ctx, jti)
		require.NoError(t, err)
		require.False(t, revoked, "jti %s", jti)
	}
}

func TestDenylistUnavailableBackend(t *testing.T) {
	mr, rdb := newTestRedis(t)
	d := NewDenylist(rdb, "")
	ctx := context.Background()

	mr.Close()

	require.ErrorIs(t, d.Revoke(ctx, "jti-1", time.Minute), ErrRedisUnavailable)
	_, err := d.IsRevoked(ctx, "jti-1")
	require.ErrorIs(t, err, ErrRedisUnavailable)
}
