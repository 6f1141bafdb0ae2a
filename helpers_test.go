package authcore

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketfleet/authcore/password"
)

var testSigningKey = []byte("engine-test-signing-key-01234567")

// memoryUsers is an in-memory UserProvider for engine tests.
type memoryUsers struct {
	mu   sync.Mutex
	byID map[string]UserRecord
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]UserRecord{}}
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := user
	return &out, nil
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byID {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if err == ErrUserNotFound {
		return false, nil
	}
	return false, err
}

func (m *memoryUsers) Save(_ context.Context, user *UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[user.ID] = *user
	return nil
}

// captureMailer records dispatched tokens instead of sending email.
type captureMailer struct {
	mu                 sync.Mutex
	verificationTokens []string
	resetTokens        []string
}

func (c *captureMailer) SendVerificationEmail(_ context.Context, _, _, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verificationTokens = append(c.verificationTokens, token)
	return nil
}

func (c *captureMailer) SendPasswordResetEmail(_ context.Context, _, _, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetTokens = append(c.resetTokens, token)
	return nil
}

func (c *captureMailer) lastVerificationToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.verificationTokens) == 0 {
		return ""
	}
	return c.verificationTokens[len(c.verificationTokens)-1]
}

func (c *captureMailer) lastResetToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.resetTokens) == 0 {
		return ""
	}
	return c.resetTokens[len(c.resetTokens)-1]
}

func (c *captureMailer) resetCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.resetTokens)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.SigningKey = testSigningKey
	return cfg
}

func newTestEngine(t *testing.T) (*Engine, *miniredis.Miniredis, *memoryUsers, *captureMailer) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := newMemoryUsers()
	mailer := &captureMailer{}

	hasher, err := password.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	engine, err := New(testConfig(), rdb, users,
		WithMailer(mailer),
		WithHasher(hasher),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)

	return engine, mr, users, mailer
}

// seedUser stores an active account with the given password and returns it.
func seedUser(t *testing.T, e *Engine, users *memoryUsers, email, plainPassword string, status UserStatus) *UserRecord {
	t.Helper()

	hash, err := e.hasher.Hash(plainPassword)
	require.NoError(t, err)

	user := &UserRecord{
		ID:            "user-" + email,
		Email:         email,
		PasswordHash:  hash,
		Role:          "customer",
		Status:        status,
		EmailVerified: status != StatusPendingVerification,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, users.Save(context.Background(), user))
	return user
}
