package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SingleUseConfig parameterizes a SingleUseStore for one purpose
// (email verification or password reset).
//
// The cooldown throttles issuance, not consumption, and must be strictly
// shorter than TokenTTL so a user is never still blocked from requesting a
// new token after their previous one has expired.
type SingleUseConfig struct {
	TokenPrefix    string
	CooldownPrefix string
	TokenTTL       time.Duration
	Cooldown       time.Duration
}

// SingleUseStore manages short-lived opaque tokens that are consumed exactly
// once, with a per-email cooldown on issuing replacements.
type SingleUseStore struct {
	redis  redis.UniversalClient
	config SingleUseConfig
}

// NewSingleUseStore creates a store for one token purpose.
func NewSingleUseStore(redisClient redis.UniversalClient, cfg SingleUseConfig) (*SingleUseStore, error) {
	if cfg.TokenPrefix == "" || cfg.CooldownPrefix == "" {
		return nil, errors.New("stores: single-use token and cooldown prefixes are required")
	}
	if cfg.TokenTTL <= 0 || cfg.Cooldown <= 0 {
		return nil, errors.New("stores: single-use TTLs must be positive")
	}
	if cfg.Cooldown >= cfg.TokenTTL {
		return nil, errors.New("stores: cooldown must be shorter than token TTL")
	}
	return &SingleUseStore{redis: redisClient, config: cfg}, nil
}

func (s *SingleUseStore) tokenKey(token string) string {
	return s.config.TokenPrefix + token
}

func (s *SingleUseStore) cooldownKey(email string) string {
	return s.config.CooldownPrefix + email
}

// Issue creates a fresh token mapped to userID and starts the cooldown for
// email. Returns ErrCooldownActive while a previous cooldown is live.
func (s *SingleUseStore) Issue(ctx context.Context, userID, email string) (string, error) {
	remaining, err := s.CooldownRemaining(ctx, email)
	if err != nil {
		return "", err
	}
	if remaining > 0 {
		return "", fmt.Errorf("%w: retry in %s", ErrCooldownActive, remaining.Round(time.Second))
	}

	token := uuid.NewString()
	if err := s.redis.Set(ctx, s.tokenKey(token), userID, s.config.TokenTTL).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if err := s.redis.Set(ctx, s.cooldownKey(email), "1", s.config.Cooldown).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return token, nil
}

// Validate resolves the owning userID without consuming the token.
func (s *SingleUseStore) Validate(ctx context.Context, token string) (string, error) {
	userID, err := s.redis.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return userID, nil
}

// Invalidate consumes the token. Callers invoke it only after the downstream
// effect has committed, so a failed step never burns the token. Idempotent.
func (s *SingleUseStore) Invalidate(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// CooldownRemaining reports how long until a new token may be issued for
// email, zero when no cooldown is live.
func (s *SingleUseStore) CooldownRemaining(ctx context.Context, email string) (time.Duration, error) {
	ttl, err := s.redis.TTL(ctx, s.cooldownKey(email)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if ttl < 0 {
		// -1 no expiry, -2 missing key; either way no active cooldown.
		return 0, nil
	}
	return ttl, nil
}
