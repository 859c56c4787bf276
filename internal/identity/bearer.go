package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeySource looks up the RSA public key for a token's key id
type KeySource interface {
	PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// BearerConfig holds the checks applied to bearer tokens
type BearerConfig struct {
	// Issuer, when set, must match the token's iss claim
	Issuer string
	Leeway time.Duration
}

// BearerStrategy verifies an Authorization bearer token's signature and expiry
// against the identity provider's published keys before trusting its subject.
type BearerStrategy struct {
	keys   KeySource
	config BearerConfig
}

// NewBearerStrategy creates a bearer token strategy
func NewBearerStrategy(keys KeySource, config BearerConfig) *BearerStrategy {
	return &BearerStrategy{keys: keys, config: config}
}

// Name identifies the strategy in logs
func (s *BearerStrategy) Name() string { return "bearer" }

// TryResolve returns the verified subject of the bearer token, if any
func (s *BearerStrategy) TryResolve(r *http.Request) (string, bool) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return "", false
	}

	subject, err := s.Verify(r.Context(), token)
	if err != nil {
		slog.DebugContext(r.Context(), "bearer token rejected", "error", err)
		return "", false
	}
	return subject, true
}

// Verify checks the token and returns its subject claim
func (s *BearerStrategy) Verify(ctx context.Context, raw string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.config.Leeway),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no key id")
		}
		return s.keys.PublicKey(ctx, kid)
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("invalid bearer token: %w", err)
	}

	if claims.Subject == "" {
		return "", errors.New("bearer token has no subject")
	}
	return claims.Subject, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
