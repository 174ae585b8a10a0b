package user

import "context"

// Repository is the read side of the storefront user store.
type Repository interface {
	// GetDisplayName returns the user's display name, or
	// errors.ErrUserNotFound when no user has that id.
	GetDisplayName(ctx context.Context, id string) (string, error)

	// ListIDsByRole returns the ids of every user currently holding role.
	ListIDsByRole(ctx context.Context, role string) ([]string, error)
}
