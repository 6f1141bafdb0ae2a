package authcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/marketfleet/authcore/internal/stores"
)

// Register creates a principal in pending-verification state and dispatches
// a verification token to the given email. The credential write is
// authoritative; mail delivery is best-effort and never rolls it back.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	exists, err := e.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &UserRecord{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         e.config.Account.DefaultRole,
		Status:       StatusPendingVerification,
		CreatedAt:    time.Now(),
	}
	if err := e.users.Save(ctx, user); err != nil {
		return nil, err
	}
	e.logger.Info("created user credential", slog.String("email", user.Email))

	if err := e.dispatchVerification(ctx, user, req.FullName); err != nil {
		return nil, err
	}

	return &RegisterResult{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Status:    user.Status.String(),
		Message:   "Registration successful. Please check your email to verify your account.",
		CreatedAt: user.CreatedAt,
	}, nil
}

// dispatchVerification issues a verification token and hands it to the
// mailer. The token write is the committed effect; a mailer failure is
// logged and swallowed.
func (e *Engine) dispatchVerification(ctx context.Context, user *UserRecord, fullName string) error {
	token, err := e.verificationStore.Issue(ctx, user.ID, user.Email)
	if err != nil {
		if errors.Is(err, stores.ErrCooldownActive) {
			return ErrCooldownActive
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if fullName == "" {
		fullName = "User"
	}
	if e.mailer != nil {
		if err := e.mailer.SendVerificationEmail(ctx, user.Email, fullName, token); err != nil {
			e.logger.Warn("verification email dispatch failed",
				slog.String("email", user.Email))
		}
	}
	return nil
}
