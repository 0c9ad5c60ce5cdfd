package organization

import "context"

type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (Organization, error)
	ListIDs(ctx context.Context) ([]string, error)
	SetDefaultSchedule(ctx context.Context, id string, scheduleID *string) error
}
