package svcauth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenTypeService is the type marker distinguishing service tokens from
// user session tokens on the wire.
const tokenTypeService = "service"

var (
	// ErrInvalidClient is the uniform failure for a credential exchange:
	// an unknown client id and a wrong secret are indistinguishable.
	ErrInvalidClient = errors.New("invalid service credentials")
)

// ServerConfig configures the token server side.
type ServerConfig struct {
	SigningKey []byte
	TokenTTL   time.Duration
	Issuer     string
	// Credentials maps client id to its expected secret.
	Credentials map[string]string
}

// TokenService validates inbound client credentials and issues signed
// service tokens, and introspects tokens presented by callers.
type TokenService struct {
	config ServerConfig
	logger *slog.Logger
}

// NewTokenService validates cfg and returns a token service. A nil logger
// selects slog.Default().
func NewTokenService(cfg ServerConfig, logger *slog.Logger) (*TokenService, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, errors.New("svcauth: signing key is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("svcauth: token TTL must be positive")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "authcore"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{config: cfg, logger: logger}, nil
}

// TokenResponse is the exchange payload returned to a client.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
	ServiceName string `json:"serviceName"`
}

type serviceClaims struct {
	ClientID    string `json:"clientId"`
	ServiceName string `json:"serviceName"`
	Type        string `json:"type"`
	Scope       string `json:"scope"`
	jwt.RegisteredClaims
}

// Exchange validates a client id/secret pair and issues a service token.
// Failure is uniform regardless of which part did not match.
func (s *TokenService) Exchange(clientID, clientSecret string) (*TokenResponse, error) {
	if s == nil {
		return nil, ErrInvalidClient
	}

	expected, ok := s.config.Credentials[clientID]
	if !ok || expected == "" ||
		subtle.ConstantTimeCompare([]byte(expected), []byte(clientSecret)) != 1 {
		s.logger.Warn("invalid service credentials", slog.String("client_id", clientID))
		return nil, ErrInvalidClient
	}

	now := time.Now()
	claims := serviceClaims{
		ClientID:    clientID,
		ServiceName: clientID,
		Type:        tokenTypeService,
		Scope:       tokenTypeService,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			Issuer:    s.config.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.SigningKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info("issued service token", slog.String("service", clientID))
	return &TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.TokenTTL / time.Second),
		ServiceName: clientID,
	}, nil
}

// Introspection is the result of validating a presented service token.
// Inactive results carry no detail about the reason.
type Introspection struct {
	Active      bool   `json:"active"`
	ServiceName string `json:"serviceName,omitempty"`
	ClientID    string `json:"clientId,omitempty"`
}

// Introspect verifies signature, expiry, and the service type marker.
// Anything else reports inactive.
func (s *TokenService) Introspect(token string) Introspection {
	if s == nil {
		return Introspection{}
	}

	claims := &serviceClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidClient
		}
		return s.config.SigningKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid || claims.Type != tokenTypeService {
		return Introspection{}
	}

	return Introspection{
		Active:      true,
		ServiceName: claims.ServiceName,
		ClientID:    claims.ClientID,
	}
}

// exchangeRequest is the wire shape consumed by ExchangeHandler, matching
// what Client sends.
type exchangeRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// ExchangeHandler serves the credential exchange endpoint
// (POST, JSON body {clientId, clientSecret}).
func (s *TokenService) ExchangeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req exchangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		resp, err := s.Exchange(req.ClientID, req.ClientSecret)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// IntrospectHandler serves the introspection endpoint
// (POST, JSON body {"token": ...}).
func (s *TokenService) IntrospectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.Introspect(req.Token))
	}
}
