package limiters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLoginAttemptsPrefix = "auth:login_attempts:"

const (
	// DefaultMaxAttempts is the lockout threshold when none is configured.
	DefaultMaxAttempts = 5
	// DefaultWindow is the fixed failure window when none is configured.
	DefaultWindow = 15 * time.Minute
)

// ErrLimiterUnavailable indicates the counter backend is unreachable.
// Security-critical callers must fail closed on it, never proceed.
var ErrLimiterUnavailable = errors.New("login limiter unavailable")

// LoginConfig tunes the lockout policy.
type LoginConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginLimiter counts failed login attempts per identifier (email) and
// locks out once the threshold is reached within the window.
type LoginLimiter struct {
	redis  redis.UniversalClient
	prefix string
	config LoginConfig
}

// NewLoginLimiter creates a login limiter. Zero config fields select the
// defaults; an empty prefix selects "auth:login_attempts:".
func NewLoginLimiter(redisClient redis.UniversalClient, prefix string, cfg LoginConfig) *LoginLimiter {
	if prefix == "" {
		prefix = defaultLoginAttemptsPrefix
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &LoginLimiter{redis: redisClient, prefix: prefix, config: cfg}
}

func (l *LoginLimiter) key(identifier string) string {
	return l.prefix + identifier
}

// RecordFailure increments the failure counter and returns the new count.
// The window TTL is set only when the count lands on 1: the first failure
// starts the window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, identifier string) (int, error) {
	count, err := l.redis.Incr(ctx, l.key(identifier)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, l.key(identifier), l.config.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
		}
	}

	return int(count), nil
}

// IsLocked reports whether the identifier has reached the attempt budget.
func (l *LoginLimiter) IsLocked(ctx context.Context, identifier string) (bool, error) {
	count, err := l.currentCount(ctx, identifier)
	if err != nil {
		return false, err
	}
	return count >= l.config.MaxAttempts, nil
}

// RemainingAttempts returns how many failures are left before lockout,
// never below zero.
func (l *LoginLimiter) RemainingAttempts(ctx context.Context, identifier string) (int, error) {
	count, err := l.currentCount(ctx, identifier)
	if err != nil {
		return 0, err
	}
	remaining := l.config.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reset clears the counter, called on successful authentication.
func (l *LoginLimiter) Reset(ctx context.Context, identifier string) error {
	if err := l.redis.Del(ctx, l.key(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	return nil
}

// ResetETA reports how long until the counter expires on its own,
// zero when no counter is live.
func (l *LoginLimiter) ResetETA(ctx context.Context, identifier string) (time.Duration, error) {
	ttl, err := l.redis.TTL(ctx, l.key(identifier)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (l *LoginLimiter) currentCount(ctx context.Context, identifier string) (int, error) {
	count, err := l.redis.Get(ctx, l.key(identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrLimiterUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return int(count), nil
}
