package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDenylistPrefix = "auth:denylist:"

// Denylist marks access-token jtis as revoked for the remainder of their
// natural lifetime. Entries expire on their own, so the denylist never grows
// past the tokens revoked within one access-token lifetime window.
type Denylist struct {
	redis  redis.UniversalClient
	prefix string
}

// NewDenylist creates a denylist using the given key prefix
// ("auth:denylist:" when empty).
func NewDenylist(redisClient redis.UniversalClient, prefix string) *Denylist {
	if prefix == "" {
		prefix = defaultDenylistPrefix
	}
	return &Denylist{redis: redisClient, prefix: prefix}
}

func (d *Denylist) key(jti string) string {
	return d.prefix + jti
}

// Revoke records the jti with exactly the token's remaining lifetime.
// A non-positive TTL means the token is already expired and needs no entry.
func (d *Denylist) Revoke(ctx context.Context, jti string, remaining time.Duration) error {
	if remaining <= 0 {
		return nil
	}
	if err := d.redis.Set(ctx, d.key(jti), "revoked", remaining).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether the jti has a live denylist entry.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.redis.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}
