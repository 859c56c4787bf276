package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexium/recipe-service/internal/domain"
)

type stubStrategy struct {
	name   string
	userID string
	ok     bool
	calls  int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) TryResolve(*http.Request) (string, bool) {
	s.calls++
	return s.userID, s.ok
}

func TestResolver_FirstMatchWins(t *testing.T) {
	session := &stubStrategy{name: "session", userID: "user_session", ok: true}
	bearer := &stubStrategy{name: "bearer", userID: "user_bearer", ok: true}
	r := NewResolver(session, bearer)

	name, userID, err := r.ResolveWith(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "session", name)
	assert.Equal(t, "user_session", userID)
	assert.Equal(t, 0, bearer.calls, "later strategies must not run after a match")
}

func TestResolver_FallsBack(t *testing.T) {
	session := &stubStrategy{name: "session"}
	bearer := &stubStrategy{name: "bearer", userID: "user_bearer", ok: true}
	r := NewResolver(session, bearer)

	userID, err := r.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "user_bearer", userID)
	assert.Equal(t, 1, session.calls)
}

func TestResolver_EmptyIDIsAbsence(t *testing.T) {
	r := NewResolver(&stubStrategy{name: "session", ok: true})

	_, err := r.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolver_NoStrategies(t *testing.T) {
	_, err := NewResolver().Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSessionStrategy(t *testing.T) {
	s := &SessionStrategy{claimsSubject: func(ctx context.Context) (string, bool) {
		v, ok := ctx.Value(ctxKey{}).(string)
		return v, ok
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := s.TryResolve(req)
	assert.False(t, ok)

	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "user_1"))
	userID, ok := s.TryResolve(req)
	assert.True(t, ok)
	assert.Equal(t, "user_1", userID)
}

func TestSessionStrategy_NoClerkClaims(t *testing.T) {
	_, ok := NewSessionStrategy().TryResolve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

type ctxKey struct{}
