package identity

import (
	"context"
	"fmt"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/nexium/recipe-service/internal/domain"
)

// ClerkProfileFetcher loads account details from Clerk's backend API.
// clerk.SetKey must have been called with the instance secret key.
type ClerkProfileFetcher struct {
	getUser func(ctx context.Context, id string) (*clerk.User, error)
}

// NewClerkProfileFetcher creates a fetcher using the Clerk user API
func NewClerkProfileFetcher() *ClerkProfileFetcher {
	return &ClerkProfileFetcher{getUser: user.Get}
}

// FetchProfile returns the provider id and primary email of a Clerk user.
// It falls back to the first listed address when no primary is marked.
func (f *ClerkProfileFetcher) FetchProfile(ctx context.Context, providerID string) (domain.Profile, error) {
	u, err := f.getUser(ctx, providerID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to fetch clerk user %s: %w", providerID, err)
	}

	return domain.Profile{ProviderID: providerID, Email: primaryEmail(u)}, nil
}

func primaryEmail(u *clerk.User) string {
	if u == nil || len(u.EmailAddresses) == 0 {
		return ""
	}
	if u.PrimaryEmailAddressID != nil {
		for _, addr := range u.EmailAddresses {
			if addr != nil && addr.ID == *u.PrimaryEmailAddressID {
				return addr.EmailAddress
			}
		}
	}
	if first := u.EmailAddresses[0]; first != nil {
		return first.EmailAddress
	}
	return ""
}
