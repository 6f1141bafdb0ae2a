package authcore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/marketfleet/authcore/internal/limiters"
	"github.com/marketfleet/authcore/internal/stores"
	"github.com/marketfleet/authcore/jwt"
	"github.com/marketfleet/authcore/password"
)

// Engine composes the token codec, the Redis-backed stores, and the login
// limiter into the authentication use cases. Configure it once via New and
// treat it as immutable; all methods are safe for concurrent use.
type Engine struct {
	config Config
	logger *slog.Logger

	users    UserProvider
	profiles ProfileProvider
	mailer   Mailer
	hasher   password.Hasher

	jwtManager        *jwt.Manager
	refreshStore      *stores.RefreshStore
	denylist          *stores.Denylist
	loginLimiter      *limiters.LoginLimiter
	verificationStore *stores.SingleUseStore
	resetStore        *stores.SingleUseStore
}

// Option customizes optional engine collaborators.
type Option func(*Engine)

// WithProfileProvider attaches a best-effort public profile lookup. Login and
// refresh responses carry its fields when the lookup succeeds.
func WithProfileProvider(p ProfileProvider) Option {
	return func(e *Engine) { e.profiles = p }
}

// WithMailer attaches the outbound mail dispatcher for verification and
// reset tokens.
func WithMailer(m Mailer) Option {
	return func(e *Engine) { e.mailer = m }
}

// WithHasher overrides the default bcrypt password hasher.
func WithHasher(h password.Hasher) Option {
	return func(e *Engine) { e.hasher = h }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New validates cfg and wires an engine against the given Redis client and
// principal storage.
func New(cfg Config, redisClient redis.UniversalClient, users UserProvider, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if redisClient == nil {
		return nil, errors.New("authcore: redis client is required")
	}
	if users == nil {
		return nil, errors.New("authcore: user provider is required")
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		SigningKey: cfg.JWT.SigningKey,
		AccessTTL:  cfg.JWT.AccessTTL,
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}

	prefix := cfg.Redis.KeyPrefix
	verificationStore, err := stores.NewSingleUseStore(redisClient, stores.SingleUseConfig{
		TokenPrefix:    prefix + ":email_verification:",
		CooldownPrefix: prefix + ":resend_cooldown:",
		TokenTTL:       cfg.Verification.TokenTTL,
		Cooldown:       cfg.Verification.ResendCooldown,
	})
	if err != nil {
		return nil, err
	}
	resetStore, err := stores.NewSingleUseStore(redisClient, stores.SingleUseConfig{
		TokenPrefix:    prefix + ":password_reset:",
		CooldownPrefix: prefix + ":reset_cooldown:",
		TokenTTL:       cfg.PasswordReset.TokenTTL,
		Cooldown:       cfg.PasswordReset.ResendCooldown,
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:     cfg,
		users:      users,
		jwtManager: jwtManager,
		refreshStore: stores.NewRefreshStore(
			redisClient,
			prefix+":refresh:",
			prefix+":user_refresh:",
			cfg.JWT.RefreshTTL,
		),
		denylist: stores.NewDenylist(redisClient, prefix+":denylist:"),
		loginLimiter: limiters.NewLoginLimiter(redisClient, prefix+":login_attempts:", limiters.LoginConfig{
			MaxAttempts: cfg.Lockout.MaxAttempts,
			Window:      cfg.Lockout.Window,
		}),
		verificationStore: verificationStore,
		resetStore:        resetStore,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.hasher == nil {
		hasher, err := password.NewBcrypt(0)
		if err != nil {
			return nil, err
		}
		e.hasher = hasher
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e, nil
}

// statusError maps an account status to its error kind. StatusActive maps to
// nil. The switch is exhaustive over UserStatus; an unknown value is treated
// as inactive rather than silently allowed.
func statusError(status UserStatus) error {
	switch status {
	case StatusActive:
		return nil
	case StatusPendingVerification:
		return ErrEmailNotVerified
	case StatusBlocked:
		return ErrAccountBlocked
	case StatusInactive:
		return ErrAccountInactive
	}
	return ErrAccountInactive
}

// basicProfile performs the optional display-field lookup. It never fails the
// calling use case: missing provider or lookup errors yield an empty profile.
func (e *Engine) basicProfile(ctx context.Context, userID string) BasicProfile {
	if e.profiles == nil {
		return BasicProfile{}
	}
	info, err := e.profiles.BasicInfo(ctx, userID)
	if err != nil || info == nil {
		e.logger.Warn("profile lookup failed, continuing without profile",
			slog.String("user_id", userID))
		return BasicProfile{}
	}
	return *info
}
