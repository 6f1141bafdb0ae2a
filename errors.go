package authcore

import "errors"

var (
	// ErrEngineNotReady is returned when a nil or unconfigured engine is used.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrUnauthenticated covers bad credentials and unknown identifiers. It is
	// deliberately uniform: a missing account and a wrong password are
	// indistinguishable to the caller.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUserNotFound indicates a principal lookup by id failed.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates a duplicate registration.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailNotVerified indicates the account is still pending verification.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrEmailAlreadyVerified indicates a resend for an already verified account.
	ErrEmailAlreadyVerified = errors.New("email already verified")
	// ErrAccountBlocked indicates the account has been blocked.
	ErrAccountBlocked = errors.New("account blocked")
	// ErrAccountInactive indicates the account has been deactivated.
	ErrAccountInactive = errors.New("account not active")
	// ErrRateLimited indicates the login attempt budget is exhausted.
	ErrRateLimited = errors.New("too many login attempts")
	// ErrTokenInvalid covers missing, expired, malformed, and revoked tokens
	// of every kind: access, refresh, verification, reset.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrPasswordMismatch indicates new and confirm passwords differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrIncorrectPassword indicates the presented current password is wrong.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrSamePassword indicates the new password equals the current one.
	ErrSamePassword = errors.New("new password must be different from current password")
	// ErrCooldownActive indicates a verification or reset token cannot be
	// reissued yet.
	ErrCooldownActive = errors.New("resend cooldown active")
	// ErrStoreUnavailable wraps Redis failures surfaced through the engine.
	// Security-critical paths fail closed with it instead of degrading.
	ErrStoreUnavailable = errors.New("auth store unavailable")
)
