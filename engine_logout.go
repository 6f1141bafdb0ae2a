package authcore

import (
	"context"
	"fmt"
	"time"
)

// Logout revokes the presented tokens. The access token is parsed
// defensively: an unparseable token is skipped rather than failing the
// logout, since the caller is leaving either way. When parseable, its jti is
// denylisted for exactly the remaining lifetime; an already-expired token
// needs no entry. A refresh token, when presented, is invalidated too.
func (e *Engine) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if accessToken != "" {
		claims, err := e.jwtManager.ParseUnverified(accessToken)
		if err != nil {
			e.logger.Warn("could not parse access token for denylisting")
		} else if claims.ExpiresAt != nil && claims.ID != "" {
			remaining := time.Until(claims.ExpiresAt.Time)
			if err := e.denylist.Revoke(ctx, claims.ID, remaining); err != nil {
				return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
		}
	}

	if refreshToken != "" {
		if err := e.refreshStore.Invalidate(ctx, refreshToken); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	return nil
}

// LogoutAll revokes every outstanding refresh token for the user. Already
// issued access tokens stay valid until their natural expiry unless
// individually denylisted: there is no principal-to-jti index, so they cannot
// be enumerated here. Idempotent.
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if err := e.refreshStore.InvalidateAll(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
