package domain

import (
	"strings"
	"time"
)

// User is the local record of an identity-provider account
type User struct {
	ID         string    `json:"_id" example:"665f1c2e8b3a4d0012345678"`
	Username   string    `json:"username" example:"jane"`
	Email      string    `json:"email" example:"jane@example.com"`
	ProviderID string    `json:"clerkId" example:"user_2abcDEF"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Profile is the subset of the identity provider's account data needed to create a User
type Profile struct {
	ProviderID string
	Email      string
}

// NewUserFromProfile derives a User from a provider profile. The username is the
// local part of the email as the provider spells it; only the stored email is
// lower-cased. Both are trimmed.
func NewUserFromProfile(p Profile) *User {
	email := strings.TrimSpace(p.Email)
	username, _, _ := strings.Cut(email, "@")
	return &User{
		Username:   username,
		Email:      strings.ToLower(email),
		ProviderID: p.ProviderID,
	}
}
