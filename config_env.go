package authcore

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadConfigFromEnv builds a Config from environment variables, loading the
// .env file at envPath first when one is given. Unset variables keep the
// DefaultConfig values; AUTH_JWT_SIGNING_KEY has no default and must be set.
//
//	AUTH_JWT_SIGNING_KEY        signing key for user tokens (required)
//	AUTH_JWT_ACCESS_TTL         e.g. "1h"
//	AUTH_JWT_REFRESH_TTL        e.g. "168h"
//	AUTH_JWT_ISSUER
//	AUTH_LOCKOUT_MAX_ATTEMPTS   integer
//	AUTH_LOCKOUT_WINDOW         e.g. "15m"
//	AUTH_VERIFICATION_TTL       e.g. "24h"
//	AUTH_VERIFICATION_COOLDOWN  e.g. "15m"
//	AUTH_RESET_TTL              e.g. "1h"
//	AUTH_RESET_COOLDOWN         e.g. "5m"
//	AUTH_DEFAULT_ROLE
//	AUTH_REDIS_KEY_PREFIX
func LoadConfigFromEnv(envPath string) (Config, error) {
	if envPath != "" {
		// Containers usually inject env directly; a missing file is fine.
		_ = godotenv.Load(envPath)
	}

	cfg := DefaultConfig()
	cfg.JWT.SigningKey = []byte(os.Getenv("AUTH_JWT_SIGNING_KEY"))

	var err error
	if cfg.JWT.AccessTTL, err = envDuration("AUTH_JWT_ACCESS_TTL", cfg.JWT.AccessTTL); err != nil {
		return Config{}, err
	}
	if cfg.JWT.RefreshTTL, err = envDuration("AUTH_JWT_REFRESH_TTL", cfg.JWT.RefreshTTL); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("AUTH_JWT_ISSUER"); v != "" {
		cfg.JWT.Issuer = v
	}
	if cfg.Lockout.MaxAttempts, err = envInt("AUTH_LOCKOUT_MAX_ATTEMPTS", cfg.Lockout.MaxAttempts); err != nil {
		return Config{}, err
	}
	if cfg.Lockout.Window, err = envDuration("AUTH_LOCKOUT_WINDOW", cfg.Lockout.Window); err != nil {
		return Config{}, err
	}
	if cfg.Verification.TokenTTL, err = envDuration("AUTH_VERIFICATION_TTL", cfg.Verification.TokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.Verification.ResendCooldown, err = envDuration("AUTH_VERIFICATION_COOLDOWN", cfg.Verification.ResendCooldown); err != nil {
		return Config{}, err
	}
	if cfg.PasswordReset.TokenTTL, err = envDuration("AUTH_RESET_TTL", cfg.PasswordReset.TokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.PasswordReset.ResendCooldown, err = envDuration("AUTH_RESET_COOLDOWN", cfg.PasswordReset.ResendCooldown); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("AUTH_DEFAULT_ROLE"); v != "" {
		cfg.Account.DefaultRole = v
	}
	if v := os.Getenv("AUTH_REDIS_KEY_PREFIX"); v != "" {
		cfg.Redis.KeyPrefix = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("authcore: invalid %s: %w", name, err)
	}
	return d, nil
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("authcore: invalid %s: %w", name, err)
	}
	return n, nil
}
