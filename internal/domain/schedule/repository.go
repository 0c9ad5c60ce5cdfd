package schedule

import "context"

type WorkScheduleRepository interface {
	Create(ctx context.Context, schedule WorkSchedule) (WorkSchedule, error)
	GetByID(ctx context.Context, id string, orgID string) (WorkSchedule, error)
	ListByOrg(ctx context.Context, orgID string) ([]WorkSchedule, error)
	Update(ctx context.Context, schedule WorkSchedule) error
	Delete(ctx context.Context, id string, orgID string) error
}
