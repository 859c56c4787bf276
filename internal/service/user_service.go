package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexium/recipe-service/internal/domain"
	"github.com/nexium/recipe-service/internal/repository"
)

// ProfileFetcher loads account details from the identity provider
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, providerID string) (domain.Profile, error)
}

// UserService defines the user business logic
type UserService interface {
	GetCurrentUser(ctx context.Context, providerID string) (*domain.User, error)
	// EnsureUser returns the existing user or creates one; created reports which
	EnsureUser(ctx context.Context, providerID string) (user *domain.User, created bool, err error)
}

// UserServiceImpl implements UserService
type UserServiceImpl struct {
	repository repository.UserRepository
	profiles   ProfileFetcher
}

// NewUserService creates a user service
func NewUserService(repo repository.UserRepository, profiles ProfileFetcher) *UserServiceImpl {
	return &UserServiceImpl{repository: repo, profiles: profiles}
}

// GetCurrentUser returns the local record for a provider id
func (s *UserServiceImpl) GetCurrentUser(ctx context.Context, providerID string) (*domain.User, error) {
	user, err := s.repository.FindUserByProviderID(ctx, providerID)
	if err != nil {
		return nil, &ServiceError{Op: "get_user", Err: err}
	}
	return user, nil
}

// EnsureUser is idempotent: a second call for the same provider id returns the first record.
// A concurrent creation for the same provider id is resolved by re-reading the winner.
func (s *UserServiceImpl) EnsureUser(ctx context.Context, providerID string) (*domain.User, bool, error) {
	// Return the stored record if the account is already known
	existing, err := s.repository.FindUserByProviderID(ctx, providerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, &ServiceError{Op: "find_user", Err: err}
	}

	// Load the email from the identity provider
	profile, err := s.profiles.FetchProfile(ctx, providerID)
	if err != nil {
		return nil, false, &ServiceError{Op: "fetch_profile", Err: err}
	}
	if profile.Email == "" {
		return nil, false, &ServiceError{Op: "fetch_profile", Err: fmt.Errorf("account %s has no email address", providerID)}
	}

	created, err := s.repository.CreateUser(ctx, domain.NewUserFromProfile(profile))
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with a concurrent request for the same account
		if winner, findErr := s.repository.FindUserByProviderID(ctx, providerID); findErr == nil {
			return winner, false, nil
		}
	}
	if err != nil {
		return nil, false, &ServiceError{Op: "create_user", Err: err}
	}

	slog.InfoContext(ctx, "user created", "user_id", created.ID, "provider_id", providerID)
	return created, true, nil
}
