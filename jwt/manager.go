package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid is returned by Verify for any token that cannot be
// accepted: malformed, bad signature, or expired. Callers should not branch
// on the reason.
var ErrTokenInvalid = errors.New("invalid token")

// Config holds the signing parameters for user session tokens.
type Config struct {
	SigningKey []byte
	AccessTTL  time.Duration
	Issuer     string
}

// Claims is the signed claim-set embedded in every access token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256-signed access tokens.
type Manager struct {
	config Config
}

// NewManager validates the config and returns a token manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("jwt: signing key is required")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("jwt: access TTL must be positive")
	}
	return &Manager{config: cfg}, nil
}

// AccessTTL reports the configured token lifetime.
func (m *Manager) AccessTTL() time.Duration {
	return m.config.AccessTTL
}

// Issue signs a fresh access token for the given user. The jti is a new
// random UUID and expiry is issue time plus the configured lifetime, both
// truncated to whole seconds on the wire.
func (m *Manager) Issue(userID, email, role string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Scope:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.config.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.config.SigningKey)
	if err != nil {
		return "", nil, err
	}

	return signed, claims, nil
}

// Verify checks signature and expiry and returns the parsed claims.
// Any failure maps to ErrTokenInvalid.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.config.SigningKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseUnverified extracts claims without checking the signature or expiry.
// Logout uses it to recover the jti and remaining lifetime from whatever the
// caller presented; the result must never be trusted for authentication.
func (m *Manager) ParseUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
