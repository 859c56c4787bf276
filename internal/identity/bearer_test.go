package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwksFixture struct {
	key     *rsa.PrivateKey
	kid     string
	server  *httptest.Server
	fetches atomic.Int32
}

func newJWKSFixture(t *testing.T) *jwksFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &jwksFixture{key: key, kid: "ins_test_key"}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.fetches.Add(1)
		if r.URL.Path != "/jwks" || r.Header.Get("Authorization") != "Bearer sk_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kid": f.kid,
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *jwksFixture) keySource(secretKey string) *ClerkKeySource {
	return NewClerkKeySource(NewJWKSClient(secretKey, f.server.URL, f.server.Client()))
}

func (f *jwksFixture) strategy() *BearerStrategy {
	return NewBearerStrategy(f.keySource("sk_test"), BearerConfig{Issuer: "https://clerk.example.com"})
}

func (f *jwksFixture) sign(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.RegisteredClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user_2abc",
		Issuer:    "https://clerk.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
}

func requestWithAuth(header string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}

func TestBearerStrategy_ValidToken(t *testing.T) {
	f := newJWKSFixture(t)
	s := f.strategy()
	token := f.sign(t, f.key, f.kid, validClaims())

	userID, ok := s.TryResolve(requestWithAuth("Bearer " + token))
	require.True(t, ok)
	assert.Equal(t, "user_2abc", userID)

	// second call is served from the key cache
	_, ok = s.TryResolve(requestWithAuth("bearer " + token))
	require.True(t, ok)
	assert.Equal(t, int32(1), f.fetches.Load())
}

func TestBearerStrategy_Rejects(t *testing.T) {
	f := newJWKSFixture(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.example.com"

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer not.a.jwt"},
		{"expired", "Bearer " + f.sign(t, f.key, f.kid, expired)},
		{"missing expiry", "Bearer " + f.sign(t, f.key, f.kid, noExpiry)},
		{"wrong issuer", "Bearer " + f.sign(t, f.key, f.kid, wrongIssuer)},
		{"no subject", "Bearer " + f.sign(t, f.key, f.kid, noSubject)},
		{"forged signature", "Bearer " + f.sign(t, otherKey, f.kid, validClaims())},
		{"unknown key id", "Bearer " + f.sign(t, f.key, "ins_other", validClaims())},
	}

	s := f.strategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, ok := s.TryResolve(requestWithAuth(tt.header))
			assert.False(t, ok)
			assert.Empty(t, userID)
		})
	}
}

func TestBearerStrategy_UnsignedTokenRejected(t *testing.T) {
	f := newJWKSFixture(t)
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, ok := f.strategy().TryResolve(requestWithAuth("Bearer " + raw))
	assert.False(t, ok)
}

func TestClerkKeySource_FetchFailure(t *testing.T) {
	f := newJWKSFixture(t)

	_, err := f.keySource("sk_wrong").PublicKey(t.Context(), f.kid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), f.kid)
}

func TestClerkKeySource_UnknownKid(t *testing.T) {
	f := newJWKSFixture(t)

	_, err := f.keySource("sk_test").PublicKey(t.Context(), "ins_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ins_missing")
}

func TestClerkKeySource_RefreshesAfterExpiry(t *testing.T) {
	f := newJWKSFixture(t)
	keys := f.keySource("sk_test")
	now := time.Now()
	keys.now = func() time.Time { return now }

	first, err := keys.PublicKey(t.Context(), f.kid)
	require.NoError(t, err)
	assert.Zero(t, f.key.N.Cmp(first.N))

	_, err = keys.PublicKey(t.Context(), f.kid)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.fetches.Load())

	now = now.Add(signingKeyTTL + time.Second)
	_, err = keys.PublicKey(t.Context(), f.kid)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.fetches.Load())
}
