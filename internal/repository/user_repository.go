package repository

import (
	"context"

	"github.com/nexium/recipe-service/internal/domain"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// FindUserByProviderID returns domain.ErrNotFound when no user has the provider id
	FindUserByProviderID(ctx context.Context, providerID string) (*domain.User, error)
	// CreateUser returns domain.ErrConflict when username, email or provider id is taken
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
}
