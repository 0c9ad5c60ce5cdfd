package schedule

import "context"

type ScheduleService interface {
	List(ctx context.Context, orgID string) ([]ScheduleResponse, error)
	Get(ctx context.Context, orgID string, id string) (ScheduleResponse, error)
	Create(ctx context.Context, orgID string, req CreateScheduleRequest) (ScheduleResponse, error)
	Update(ctx context.Context, orgID string, req UpdateScheduleRequest) (ScheduleResponse, error)
	Delete(ctx context.Context, orgID string, id string) error
	SetDefault(ctx context.Context, orgID string, id string) (ScheduleResponse, error)

	// GetDefault returns the organization's default schedule, or nil when none is set.
	GetDefault(ctx context.Context, orgID string) (*WorkSchedule, error)
}
