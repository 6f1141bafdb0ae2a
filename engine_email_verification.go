package authcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marketfleet/authcore/internal/stores"
)

// VerifyEmail consumes a verification token: it flags the account verified,
// promotes pending-verification accounts to active, and only then
// invalidates the token. Repeating the call for an already verified account
// is a no-op success.
func (e *Engine) VerifyEmail(ctx context.Context, token string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	userID, err := e.verificationStore.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, stores.ErrTokenNotFound) {
			return "", ErrTokenInvalid
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if user.EmailVerified {
		return "Email already verified", nil
	}

	user.EmailVerified = true
	user.EmailVerifiedAt = time.Now()
	if user.Status == StatusPendingVerification {
		user.Status = StatusActive
	}
	if err := e.users.Save(ctx, user); err != nil {
		return "", err
	}

	// Invalidate only after the verification effect has committed.
	if err := e.verificationStore.Invalidate(ctx, token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.logger.Info("email verified", slog.String("user_id", userID))
	return "Email verified successfully! You can now login.", nil
}

// ResendVerification issues a new verification token for an unverified
// account, subject to the resend cooldown.
func (e *Engine) ResendVerification(ctx context.Context, email string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	remaining, err := e.verificationStore.CooldownRemaining(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if remaining > 0 {
		return fmt.Errorf("%w: retry in %s", ErrCooldownActive, remaining.Round(time.Second))
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return ErrEmailAlreadyVerified
	}

	profile := e.basicProfile(ctx, user.ID)
	return e.dispatchVerification(ctx, user, profile.FullName)
}
