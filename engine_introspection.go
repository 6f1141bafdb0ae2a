package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/marketfleet/authcore/jwt"
)

// VerifyAccessToken is the full acceptance check for a previously issued
// access token: codec verification (signature and expiry) plus the denylist.
// A token is valid only if both pass. A denylist backend failure fails the
// check closed rather than letting a possibly revoked token through.
func (e *Engine) VerifyAccessToken(ctx context.Context, token string) (*jwt.Claims, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwtManager.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenInvalid) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	revoked, err := e.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if revoked {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Introspect reports whether the token is currently acceptable, hiding the
// reason when it is not.
func (e *Engine) Introspect(ctx context.Context, token string) bool {
	_, err := e.VerifyAccessToken(ctx, token)
	return err == nil
}
