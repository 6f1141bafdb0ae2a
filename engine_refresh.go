package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/marketfleet/authcore/internal/stores"
)

// Refresh exchanges a live refresh token for a new access/refresh pair.
// Refresh tokens are single-use: the presented token is invalidated and a
// fresh one issued on every call, so a captured token cannot be replayed
// past its first use.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	userID, err := e.refreshStore.Validate(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, stores.ErrTokenNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status != StatusActive {
		return nil, statusError(user.Status)
	}

	// Rotation: retire the used token before minting its replacement.
	if err := e.refreshStore.Invalidate(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return e.issueSession(ctx, user)
}
