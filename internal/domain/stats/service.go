package stats

import "context"

type StatsService interface {
	Monthly(ctx context.Context, userID string, orgID string, q MonthQuery) (MonthlyStats, error)
	Team(ctx context.Context, orgID string, q MonthQuery) ([]TeamMemberStats, error)
}
