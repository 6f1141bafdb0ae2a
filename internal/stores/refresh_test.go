package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRefreshStore(t *testing.T) (*RefreshStore, func() []string) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb, "", "", time.Hour)

	members := func() []string {
		set, _ := mr.SMembers("auth:user_refresh:user-1")
		return set
	}
	return s, members
}

func TestRefreshCreateValidate(t *testing.T) {
	s, members := newTestRefreshStore(t)
	ctx := context.Background()

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := s.Validate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)

	// Forward entry and reverse membership stay in lockstep.
	require.Equal(t, []string{token}, members())
}

func TestRefreshValidateDoesNotConsume(t *testing.T) {
	s, _ := newTestRefreshStore(t)
	ctx := context.Background()

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		userID, err := s.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, "user-1", userID)
	}
}

func TestRefreshInvalidate(t *testing.T) {
	s, members := newTestRefreshStore(t)
	ctx := context.Background()

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, s.Invalidate(ctx, token))

	_, err = s.Validate(ctx, token)
	require.ErrorIs(t, err, ErrTokenNotFound)
	require.Empty(t, members())

	// Idempotent: revoking an unknown token is not an error.
	require.NoError(t, s.Invalidate(ctx, token))
	require.NoError(t, s.Invalidate(ctx, "never-existed"))
}

func TestRefreshInvalidateAll(t *testing.T) {
	s, members := newTestRefreshStore(t)
	ctx := context.Background()

	var tokens []string
	for i := 0; i < 3; i++ {
		token, err := s.Create(ctx, "user-1")
		require.NoError(t, err)
		tokens = append(tokens, token)
	}
	other, err := s.Create(ctx, "user-2")
	require.NoError(t, err)

	require.NoError(t, s.InvalidateAll(ctx, "user-1"))

	for _, token := range tokens {
		_, err := s.Validate(ctx, token)
		require.ErrorIs(t, err, ErrTokenNotFound, "token %s", token)
	}
	require.Empty(t, members())

	// Other principals are untouched.
	userID, err := s.Validate(ctx, other)
	require.NoError(t, err)
	require.Equal(t, "user-2", userID)

	// Safe to repeat.
	require.NoError(t, s.InvalidateAll(ctx, "user-1"))
}

func TestRefreshTokenExpires(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb, "", "", time.Minute)
	ctx := context.Background()

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)

	mr.FastForward(61 * time.Second)

	_, err = s.Validate(ctx, token)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRefreshUnavailableBackend(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb, "", "", time.Hour)
	ctx := context.Background()

	mr.Close()

	_, err := s.Create(ctx, "user-1")
	require.ErrorIs(t, err, ErrRedisUnavailable)
	_, err = s.Validate(ctx, "token")
	require.ErrorIs(t, err, ErrRedisUnavailable)
	require.ErrorIs(t, s.Invalidate(ctx, "token"), ErrRedisUnavailable)
	require.ErrorIs(t, s.InvalidateAll(ctx, "user-1"), ErrRedisUnavailable)
}
