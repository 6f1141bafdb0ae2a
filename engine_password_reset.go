package authcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marketfleet/authcore/internal/stores"
)

// forgotPasswordMessage is returned by ForgotPassword on every
// account-existence branch so the response cannot be used to enumerate
// registered emails.
const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

// ForgotPassword dispatches a reset token when the email belongs to a
// non-blocked account, and returns the same generic message either way.
// Only the issuance cooldown surfaces as a distinct error.
func (e *Engine) ForgotPassword(ctx context.Context, email string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.logger.Info("password reset requested for unknown email")
			return forgotPasswordMessage, nil
		}
		return "", err
	}

	if user.Status == StatusBlocked {
		e.logger.Warn("password reset requested for blocked account",
			slog.String("user_id", user.ID))
		return forgotPasswordMessage, nil
	}

	token, err := e.resetStore.Issue(ctx, user.ID, user.Email)
	if err != nil {
		if errors.Is(err, stores.ErrCooldownActive) {
			return "", ErrCooldownActive
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	profile := e.basicProfile(ctx, user.ID)
	fullName := profile.FullName
	if fullName == "" {
		fullName = "User"
	}
	if e.mailer != nil {
		if err := e.mailer.SendPasswordResetEmail(ctx, user.Email, fullName, token); err != nil {
			e.logger.Warn("password reset email dispatch failed",
				slog.String("email", user.Email))
		}
	}

	return forgotPasswordMessage, nil
}

// ResetPassword consumes a reset token: overwrites the password hash,
// invalidates the token, and revokes every refresh token for the principal
// so a reset forces re-login everywhere.
func (e *Engine) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	userID, err := e.resetStore.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, stores.ErrTokenNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := e.users.Save(ctx, user); err != nil {
		return err
	}

	// Consume the token only after the new hash has committed.
	if err := e.resetStore.Invalidate(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := e.refreshStore.InvalidateAll(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.logger.Info("password reset completed", slog.String("user_id", userID))
	return nil
}
