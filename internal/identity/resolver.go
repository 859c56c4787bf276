// Package identity resolves the caller's identity-provider user id from an inbound request.
package identity

import (
	"net/http"

	"github.com/nexium/recipe-service/internal/domain"
)

// Strategy is one way of identifying the caller. TryResolve reports false when
// the strategy has nothing to say about the request; failures are treated as absence.
type Strategy interface {
	Name() string
	TryResolve(r *http.Request) (string, bool)
}

// Resolver runs strategies in order and returns the first user id produced
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a resolver that tries strategies in the given order
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the caller's provider id, or domain.ErrUnauthenticated
func (res *Resolver) Resolve(r *http.Request) (string, error) {
	_, userID, err := res.ResolveWith(r)
	return userID, err
}

// ResolveWith is Resolve that also reports which strategy matched
func (res *Resolver) ResolveWith(r *http.Request) (string, string, error) {
	for _, s := range res.strategies {
		if userID, ok := s.TryResolve(r); ok && userID != "" {
			return s.Name(), userID, nil
		}
	}
	return "", "", domain.ErrUnauthenticated
}
