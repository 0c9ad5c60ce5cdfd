package punch

import (
	"context"
	"time"
)

type PunchRepository interface {
	// CreateIfAbsent inserts p unless the user already has a punch of the same
	// type in [dayStart, dayEnd). Check and insert are one atomic unit; a
	// duplicate yields ErrAlreadyPunched.
	CreateIfAbsent(ctx context.Context, p Punch, dayStart, dayEnd time.Time) (Punch, error)

	// ListByUserInRange returns punches in [from, to) ordered by punched_at.
	ListByUserInRange(ctx context.Context, userID string, orgID string, from, to time.Time) ([]Punch, error)

	// ListByOrgInRange returns every punch of the organization in [from, to).
	ListByOrgInRange(ctx context.Context, orgID string, from, to time.Time) ([]Punch, error)
}
