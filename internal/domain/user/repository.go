package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id string, orgID string) (User, error)

	// GetActiveManager returns the requester's manager when the relation exists
	// and the manager is ACTIVE, or nil otherwise.
	GetActiveManager(ctx context.Context, userID string, orgID string) (*User, error)

	// FindActiveByRole returns the longest-standing ACTIVE user holding role in
	// the org other than excludeUserID, or nil.
	FindActiveByRole(ctx context.Context, orgID string, role Role, excludeUserID string) (*User, error)

	ListActiveByOrg(ctx context.Context, orgID string) ([]User, error)
}
