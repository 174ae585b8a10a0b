package notification

import (
	"context"

	domainErrors "github.com/cassiomorais/storenotify/internal/domain/errors"
	"github.com/cassiomorais/storenotify/internal/domain/notification"
	"github.com/cassiomorais/storenotify/internal/domain/user"
)

// RecipientResolver finds the administrators to notify. Role membership is
// read from the user store on every call.
type RecipientResolver struct {
	users user.Repository
	role  string
}

// NewRecipientResolver creates a resolver for users holding role.
func NewRecipientResolver(users user.Repository, role string) *RecipientResolver {
	return &RecipientResolver{users: users, role: role}
}

// Resolve returns each matching user once. Order is not significant.
func (r *RecipientResolver) Resolve(ctx context.Context) ([]notification.Recipient, error) {
	ids, err := r.users.ListIDsByRole(ctx, r.role)
	if err != nil {
		return nil, domainErrors.Upstream("list recipients", err)
	}

	seen := make(map[string]struct{}, len(ids))
	recipients := make([]notification.Recipient, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, notification.Recipient{UserID: id})
	}
	return recipients, nil
}
