package identity

import (
	"context"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
)

// SessionStrategy reads the subject of the Clerk session claims that the session
// middleware attached to the request context.
type SessionStrategy struct {
	claimsSubject func(ctx context.Context) (string, bool)
}

// NewSessionStrategy creates a strategy backed by Clerk's session claims
func NewSessionStrategy() *SessionStrategy {
	return &SessionStrategy{claimsSubject: clerkSessionSubject}
}

// Name identifies the strategy in logs
func (s *SessionStrategy) Name() string { return "session" }

// TryResolve returns the session subject when a verified session is present
func (s *SessionStrategy) TryResolve(r *http.Request) (string, bool) {
	return s.claimsSubject(r.Context())
}

func clerkSessionSubject(ctx context.Context) (string, bool) {
	claims, ok := clerk.SessionClaimsFromContext(ctx)
	if !ok || claims == nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
