package svcauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrUnavailable is the distinct failure for credential exchange problems:
// network errors, non-success statuses, and malformed bodies. The client
// never papers over it with a stale or empty token.
var ErrUnavailable = errors.New("service auth unavailable")

const (
	defaultExchangePath     = "/auth/service/token"
	defaultRefreshThreshold = time.Minute
	defaultRequestTimeout   = 10 * time.Second
)

// ClientConfig configures the token client side.
type ClientConfig struct {
	// AuthServiceURL is the base URL of the auth service.
	AuthServiceURL string
	// ExchangePath overrides the exchange endpoint path.
	ExchangePath string
	ClientID     string
	ClientSecret string
	// RefreshThreshold is how close to expiry a cached token may get before
	// it is proactively replaced.
	RefreshThreshold time.Duration
	RequestTimeout   time.Duration
}

// cachedToken is one client-side cache entry. Entries are immutable once
// published.
type cachedToken struct {
	token       string
	serviceName string
	clientID    string
	expiresAt   time.Time
}

// shouldRefresh reports whether the remaining lifetime has fallen to or
// below the refresh threshold.
func (t *cachedToken) shouldRefresh(threshold time.Duration) bool {
	return time.Until(t.expiresAt) <= threshold
}

// Client obtains service tokens for outbound calls and caches at most one.
// The cache is read lock-free; refreshes are serialized by a mutex with a
// re-check after acquisition, so concurrent callers hitting a stale cache
// collapse into a single network exchange.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.Mutex
	cached atomic.Pointer[cachedToken]
}

// NewClient validates cfg and returns a token client. Zero durations select
// the defaults; a nil logger selects slog.Default().
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if cfg.AuthServiceURL == "" {
		return nil, errors.New("svcauth: auth service URL is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("svcauth: client credentials are required")
	}
	if cfg.ExchangePath == "" {
		cfg.ExchangePath = defaultExchangePath
	}
	if cfg.RefreshThreshold <= 0 {
		cfg.RefreshThreshold = defaultRefreshThreshold
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}, nil
}

// GetToken returns a service token with comfortably more than the refresh
// threshold of lifetime left, performing a credential exchange only when the
// cached one is missing or too close to expiry.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if tok := c.cached.Load(); tok != nil && !tok.shouldRefresh(c.config.RefreshThreshold) {
		return tok.token, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if tok := c.cached.Load(); tok != nil && !tok.shouldRefresh(c.config.RefreshThreshold) {
		return tok.token, nil
	}

	tok, err := c.exchange(ctx)
	if err != nil {
		return "", err
	}
	c.cached.Store(tok)
	return tok.token, nil
}

// SetAuthHeader puts a fresh bearer token on the given header set.
func (c *Client) SetAuthHeader(ctx context.Context, header http.Header) error {
	token, err := c.GetToken(ctx)
	if err != nil {
		return err
	}
	header.Set("Authorization", "Bearer "+token)
	return nil
}

// ClearCache drops the cached token, forcing an exchange on the next call.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached.Store(nil)
}

// exchange performs one network credential exchange. Callers hold c.mu.
func (c *Client) exchange(ctx context.Context) (*cachedToken, error) {
	body, err := json.Marshal(exchangeRequest{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	url := strings.TrimSuffix(c.config.AuthServiceURL, "/") + c.config.ExchangePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: exchange returned status %d: %s",
			ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("%w: malformed exchange response: %v", ErrUnavailable, err)
	}
	if tokenResp.AccessToken == "" || tokenResp.ExpiresIn <= 0 {
		return nil, fmt.Errorf("%w: exchange response missing token", ErrUnavailable)
	}

	c.logger.Info("obtained service token",
		slog.String("service", tokenResp.ServiceName),
		slog.Int64("expires_in", tokenResp.ExpiresIn))

	return &cachedToken{
		token:       tokenResp.AccessToken,
		serviceName: tokenResp.ServiceName,
		clientID:    c.config.ClientID,
		expiresAt:   time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}, nil
}
