package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("unit-test-signing-key-0123456789")

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()

	m, err := NewManager(Config{
		SigningKey: testKey,
		AccessTTL:  ttl,
		Issuer:     "authcore-test",
	})
	require.NoError(t, err)
	return m
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(Config{AccessTTL: time.Hour})
	require.Error(t, err)

	_, err = NewManager(Config{SigningKey: testKey})
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, issued, err := m.Issue("user-1", "a@x.com", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, issued.ID)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "a@x.com", claims.Email)
	require.Equal(t, "customer", claims.Role)
	require.Equal(t, "a@x.com", claims.Subject)
	require.Equal(t, "authcore-test", claims.Issuer)
	require.Equal(t, issued.ID, claims.ID)

	// Expiry is issue time plus the configured lifetime, whole seconds.
	require.Equal(t,
		claims.IssuedAt.Time.Add(time.Hour).Unix(),
		claims.ExpiresAt.Time.Unix())
}

func TestIssueFreshJTI(t *testing.T) {
	m := newTestManager(t, time.Hour)

	_, first, err := m.Issue("user-1", "a@x.com", "customer")
	require.NoError(t, err)
	_, second, err := m.Issue("user-1", "a@x.com", "customer")
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, _, err := m.Issue("user-1", "a@x.com", "customer")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = m.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	m := newTestManager(t, time.Hour)
	other := newTestManager(t, time.Hour)
	other.config.SigningKey = []byte("a-completely-different-key-here!")

	token, _, err := other.Issue("user-1", "a@x.com", "customer")
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	expired := expiredToken(t)
	_, err := m.Verify(expired)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	m := newTestManager(t, time.Hour)

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := m.Verify(bad)
		require.ErrorIs(t, err, ErrTokenInvalid, "token %q", bad)
	}
}

func TestParseUnverifiedRecoversExpiredClaims(t *testing.T) {
	m := newTestManager(t, time.Hour)

	claims, err := m.ParseUnverified(expiredToken(t))
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.NotEmpty(t, claims.ID)
	require.True(t, claims.ExpiresAt.Time.Before(time.Now()))
}

// expiredToken signs a token whose expiry is already in the past, which
// Issue by construction cannot produce.
func expiredToken(t *testing.T) string {
	t.Helper()

	now := time.Now()
	claims := &Claims{
		UserID: "user-1",
		Email:  "a@x.com",
		Role:   "customer",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "a@x.com",
			ID:        "expired-jti",
			IssuedAt:  jwtlib.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)
	return signed
}
