package authcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Login authenticates an email/password pair and issues an access token plus
// a refresh token.
//
// Ordering is load-bearing: the lockout check runs before any credential
// work, and a failed lookup of a nonexistent email still increments the
// failure counter so both failure branches present the same shape and cost
// to the caller.
func (e *Engine) Login(ctx context.Context, email, plainPassword, clientIP string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	locked, err := e.loginLimiter.IsLocked(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if locked {
		eta, etaErr := e.loginLimiter.ResetETA(ctx, email)
		if etaErr == nil {
			e.logger.Warn("login rate limited",
				slog.String("email", email),
				slog.Duration("reset_in", eta))
		}
		return nil, ErrRateLimited
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			if _, recErr := e.loginLimiter.RecordFailure(ctx, email); recErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, recErr)
			}
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if err := statusError(user.Status); err != nil {
		return nil, err
	}

	ok, err := e.hasher.Matches(plainPassword, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		attempts, recErr := e.loginLimiter.RecordFailure(ctx, email)
		if recErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, recErr)
		}
		remaining, _ := e.loginLimiter.RemainingAttempts(ctx, email)
		e.logger.Warn("failed login attempt",
			slog.String("email", email),
			slog.Int("attempts", attempts),
			slog.Int("remaining", remaining))
		return nil, ErrUnauthenticated
	}

	if err := e.loginLimiter.Reset(ctx, email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	user.LastLoginAt = time.Now()
	user.LastLoginIP = clientIP
	user.LoginCount++
	if err := e.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return e.issueSession(ctx, user)
}

// issueSession mints the access/refresh token pair and assembles the shared
// login/refresh response, enriched with best-effort profile fields.
func (e *Engine) issueSession(ctx context.Context, user *UserRecord) (*LoginResult, error) {
	accessToken, _, err := e.jwtManager.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := e.refreshStore.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	profile := e.basicProfile(ctx, user.ID)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(e.jwtManager.AccessTTL() / time.Second),
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		FullName:     profile.FullName,
		AvatarURL:    profile.AvatarURL,
	}, nil
}

// RemainingLoginAttempts reports how many failures are left before lockout
// for the identifier.
func (e *Engine) RemainingLoginAttempts(ctx context.Context, email string) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	remaining, err := e.loginLimiter.RemainingAttempts(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return remaining, nil
}

// LockoutResetETA reports how long until the failure window for the
// identifier expires, zero when no failures are recorded.
func (e *Engine) LockoutResetETA(ctx context.Context, email string) (time.Duration, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	eta, err := e.loginLimiter.ResetETA(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return eta, nil
}
