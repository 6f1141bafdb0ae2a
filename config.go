package authcore

import (
	"errors"
	"time"
)

// Config is the immutable engine configuration, built once at process start
// and passed into New. There is no ambient or global access to any of it.
type Config struct {
	JWT           JWTConfig
	Lockout       LockoutConfig
	Verification  TokenPolicy
	PasswordReset TokenPolicy
	Account       AccountConfig
	Redis         RedisConfig
}

// JWTConfig holds user-token signing parameters.
type JWTConfig struct {
	SigningKey []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// LockoutConfig tunes the login failure limiter.
type LockoutConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// TokenPolicy tunes one single-use token purpose. ResendCooldown throttles
// issuance and must stay shorter than TokenTTL.
type TokenPolicy struct {
	TokenTTL       time.Duration
	ResendCooldown time.Duration
}

// AccountConfig holds registration defaults.
type AccountConfig struct {
	DefaultRole string
}

// RedisConfig controls how the engine namespaces its keys.
type RedisConfig struct {
	KeyPrefix string
}

// DefaultConfig returns the production defaults: 1h access tokens, 7d
// refresh tokens, 5 attempts per 15 minutes lockout, 24h/15m verification
// tokens, 1h/5m reset tokens. The signing key has no default.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "authcore",
		},
		Lockout: LockoutConfig{
			MaxAttempts: 5,
			Window:      15 * time.Minute,
		},
		Verification: TokenPolicy{
			TokenTTL:       24 * time.Hour,
			ResendCooldown: 15 * time.Minute,
		},
		PasswordReset: TokenPolicy{
			TokenTTL:       time.Hour,
			ResendCooldown: 5 * time.Minute,
		},
		Account: AccountConfig{
			DefaultRole: "customer",
		},
		Redis: RedisConfig{
			KeyPrefix: "auth",
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if len(c.JWT.SigningKey) == 0 {
		return errors.New("authcore: JWT signing key is required")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("authcore: token TTLs must be positive")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("authcore: refresh TTL must exceed access TTL")
	}
	if c.Lockout.MaxAttempts <= 0 || c.Lockout.Window <= 0 {
		return errors.New("authcore: lockout policy must be positive")
	}
	for _, p := range []TokenPolicy{c.Verification, c.PasswordReset} {
		if p.TokenTTL <= 0 || p.ResendCooldown <= 0 {
			return errors.New("authcore: single-use token TTLs must be positive")
		}
		if p.ResendCooldown >= p.TokenTTL {
			return errors.New("authcore: resend cooldown must be shorter than token TTL")
		}
	}
	if c.Account.DefaultRole == "" {
		return errors.New("authcore: default role is required")
	}
	if c.Redis.KeyPrefix == "" {
		return errors.New("authcore: redis key prefix is required")
	}
	return nil
}
