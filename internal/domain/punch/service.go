package punch

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
)

type PunchService interface {
	Punch(ctx context.Context, userID string, orgID string, req CreatePunchRequest) (PunchResponse, error)
	Today(ctx context.Context, userID string, orgID string) (TodayPunchesResponse, error)
	History(ctx context.Context, userID string, orgID string, filter HistoryFilter) (HistoryResponse, error)
	CurrentSchedule(ctx context.Context, orgID string) (*schedule.ScheduleResponse, error)
}
