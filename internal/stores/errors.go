package stores

import "errors"

var (
	// ErrRedisUnavailable wraps any transport or server failure talking to
	// Redis. Callers must treat it as a hard failure, never as "not found".
	ErrRedisUnavailable = errors.New("token store unavailable")

	// ErrTokenNotFound is returned when an opaque token has no live record:
	// it never existed, expired, or was already consumed.
	ErrTokenNotFound = errors.New("token not found")

	// ErrCooldownActive is returned when a single-use token cannot be issued
	// because the per-email resend cooldown is still live.
	ErrCooldownActive = errors.New("issue cooldown active")
)
