package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRefreshTokenPrefix = "auth:refresh:"
	defaultRefreshUserPrefix  = "auth:user_refresh:"
)

// RefreshStore issues, validates, and revokes opaque refresh tokens.
//
// Two structures are kept in lockstep: a forward mapping token -> userID and
// a reverse set userID -> {tokens}. Redis only guarantees atomicity per key,
// so mutation order is an invariant, not a style choice: the forward entry is
// written before the reverse membership on create, and the reverse membership
// is removed before the forward entry on delete. A crash mid-sequence can
// then at worst orphan a reverse entry (harmless, it expires) but never leave
// a live forward entry with no reverse reference.
type RefreshStore struct {
	redis       redis.UniversalClient
	tokenPrefix string
	userPrefix  string
	ttl         time.Duration
}

// NewRefreshStore creates a refresh-token store with the given token
// lifetime. Empty prefixes select the defaults.
func NewRefreshStore(redisClient redis.UniversalClient, tokenPrefix, userPrefix string, ttl time.Duration) *RefreshStore {
	if tokenPrefix == "" {
		tokenPrefix = defaultRefreshTokenPrefix
	}
	if userPrefix == "" {
		userPrefix = defaultRefreshUserPrefix
	}
	return &RefreshStore{
		redis:       redisClient,
		tokenPrefix: tokenPrefix,
		userPrefix:  userPrefix,
		ttl:         ttl,
	}
}

func (s *RefreshStore) tokenKey(token string) string {
	return s.tokenPrefix + token
}

func (s *RefreshStore) userKey(userID string) string {
	return s.userPrefix + userID
}

// Create issues a fresh opaque token for the user. The reverse set's TTL is
// refreshed to the full refresh lifetime on every create so it outlives every
// member token.
func (s *RefreshStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()

	// Forward entry first; see the ordering note on RefreshStore.
	if err := s.redis.Set(ctx, s.tokenKey(token), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if err := s.redis.SAdd(ctx, s.userKey(userID), token).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if err := s.redis.Expire(ctx, s.userKey(userID), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return token, nil
}

// Validate resolves the owning userID. It never mutates state: rotation is an
// explicit step chosen by the caller, not a side effect of reading.
func (s *RefreshStore) Validate(ctx context.Context, token string) (string, error) {
	userID, err := s.redis.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return userID, nil
}

// Invalidate revokes a single token. Unknown tokens are a no-op.
func (s *RefreshStore) Invalidate(ctx context.Context, token string) error {
	userID, err := s.redis.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Reverse membership first; see the ordering note on RefreshStore.
	if err := s.redis.SRem(ctx, s.userKey(userID), token).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if err := s.redis.Del(ctx, s.tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// InvalidateAll revokes every outstanding token for the user ("log out
// everywhere"). Safe to repeat.
func (s *RefreshStore) InvalidateAll(ctx context.Context, userID string) error {
	tokens, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	for _, token := range tokens {
		if err := s.redis.Del(ctx, s.tokenKey(token)).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if err := s.redis.Del(ctx, s.userKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
