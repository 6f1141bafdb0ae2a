package authcore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRefreshRotatesToken(t *testing.T) {
	engine, _, users, _ := newTestEngine(t)
	ctx := context.Background()

	user := seedUser(t, engine, users, "alice@example.com", "correct horse", StatusActive)

	first, err := engine.Login(ctx, "alice@example.com", "correct horse", "")
	require.NoError(t, err)

	second, err := engine.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, second.UserID)
	require.NotEmpty(t, second.AccessToken)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The used token must not be replayable.
	_, err = engine.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrTokenInvalid)

	// The replacement still works.
	_, err = engine.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	_, err := engine.Refresh(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshExpiredToken(t *testing.T) {
	engine, mr, users, _ := newTestEngine(t)
	ctx := context.Background()

	seedUser(t, engine, users, "alice@example.com", "correct horse", StatusActive)

	result, err := engine.Login(ctx, "alice@example.com", "correct horse", "")
	require.NoError(t, err)

	mr.FastForward(7*24*time.Hour + time.Minute)

	_, err = engine.Refresh(ctx, result.RefreshToken)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshRejectsNonActiveAccount(t *testing.T) {
	engine, _, users, _ := newTestEngine(t)
	ctx := context.Background()

	user := seedUser(t, engine, users, "alice@example.com", "correct horse", StatusActive)

	result, err := engine.Login(ctx, "alice@example.com", "correct horse", "")
	require.NoError(t, err)

	// Block the account between login and refresh.
	user.Status = StatusBlocked
	require.NoError(t, users.Save(ctx, user))

	_, err = engine.Refresh(ctx, result.RefreshToken)
	require.ErrorIs(t, err, ErrAccountBlocked)
}

func TestRefreshStoreUnavailable(t *testing.T) {
	engine, mr, _, _ := newTestEngine(t)

	mr.Close()

	_, err := engine.Refresh(context.Background(), "any-token")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
