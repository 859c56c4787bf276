package identity

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
)

const signingKeyTTL = 1 * time.Hour

// NewJWKSClient builds a Clerk key set client. An empty apiURL keeps the SDK's
// default backend URL and an empty secretKey falls back to the package level key.
func NewJWKSClient(secretKey, apiURL string, httpClient *http.Client) *jwks.Client {
	config := &clerk.ClientConfig{}
	config.HTTPClient = httpClient
	if secretKey != "" {
		config.Key = clerk.String(secretKey)
	}
	if apiURL != "" {
		config.URL = clerk.String(apiURL)
	}
	return jwks.NewClient(config)
}

type cachedKey struct {
	key       *rsa.PublicKey
	expiresAt time.Time
}

// ClerkKeySource resolves signing keys through the Clerk JWKS API and keeps
// each key it has seen for an hour.
type ClerkKeySource struct {
	client *jwks.Client

	mu   sync.RWMutex
	keys map[string]cachedKey
	now  func() time.Time
}

// NewClerkKeySource creates a key source backed by client
func NewClerkKeySource(client *jwks.Client) *ClerkKeySource {
	return &ClerkKeySource{
		client: client,
		keys:   make(map[string]cachedKey),
		now:    time.Now,
	}
}

// PublicKey returns the RSA key registered under kid
func (s *ClerkKeySource) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.RLock()
	cached, ok := s.keys[kid]
	s.mu.RUnlock()
	if ok && s.now().Before(cached.expiresAt) {
		return cached.key, nil
	}

	jwk, err := clerkjwt.GetJSONWebKey(ctx, &clerkjwt.GetJSONWebKeyParams{
		KeyID:      kid,
		JWKSClient: s.client,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signing key %q: %w", kid, err)
	}

	// Clerk signs session tokens with RS256 only
	pub, ok := jwk.Key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("signing key %q is not an RSA public key", kid)
	}

	s.mu.Lock()
	s.keys[kid] = cachedKey{key: pub, expiresAt: s.now().Add(signingKeyTTL)}
	s.mu.Unlock()

	return pub, nil
}
