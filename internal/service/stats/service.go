package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/stats"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/clock"
	"golang.org/x/sync/errgroup"
)

// teamConcurrency bounds the per-member aggregations running at once.
const teamConcurrency = 8

type StatsServiceImpl struct {
	punch.PunchRepository
	request.RequestRepository
	anomaly.AnomalyRepository
	organization.OrganizationRepository
	schedule.WorkScheduleRepository
	user.UserRepository
}

func NewStatsService(
	punchRepo punch.PunchRepository,
	requestRepo request.RequestRepository,
	anomalyRepo anomaly.AnomalyRepository,
	organizationRepo organization.OrganizationRepository,
	workScheduleRepo schedule.WorkScheduleRepository,
	userRepo user.UserRepository,
) stats.StatsService {
	return &StatsServiceImpl{
		PunchRepository:        punchRepo,
		RequestRepository:      requestRepo,
		AnomalyRepository:      anomalyRepo,
		OrganizationRepository: organizationRepo,
		WorkScheduleRepository: workScheduleRepo,
		UserRepository:         userRepo,
	}
}

// monthScope is the organization-wide context shared by every member's figure.
type monthScope struct {
	orgID          string
	month          string
	clk            clock.Clock
	from, to       time.Time
	minWorkMinutes int
}

// Monthly implements stats.StatsService.
func (s *StatsServiceImpl) Monthly(ctx context.Context, userID string, orgID string, q stats.MonthQuery) (stats.MonthlyStats, error) {
	scope, err := s.scope(ctx, orgID, q)
	if err != nil {
		return stats.MonthlyStats{}, err
	}
	return s.member(ctx, userID, scope)
}

// Team implements stats.StatsService. Members keep the repository order.
func (s *StatsServiceImpl) Team(ctx context.Context, orgID string, q stats.MonthQuery) ([]stats.TeamMemberStats, error) {
	scope, err := s.scope(ctx, orgID, q)
	if err != nil {
		return nil, err
	}

	users, err := s.UserRepository.ListActiveByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	result := make([]stats.TeamMemberStats, len(users))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(teamConcurrency)
	for i, u := range users {
		g.Go(func() error {
			ms, err := s.member(gCtx, u.ID, scope)
			if err != nil {
				return fmt.Errorf("member %s: %w", u.ID, err)
			}
			result[i] = stats.TeamMemberStats{FullName: u.FullName, MonthlyStats: ms}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("team stats computed", "org_id", orgID, "month", scope.month, "members", len(result))
	return result, nil
}

func (s *StatsServiceImpl) scope(ctx context.Context, orgID string, q stats.MonthQuery) (monthScope, error) {
	if err := q.Validate(); err != nil {
		return monthScope{}, err
	}

	org, err := s.OrganizationRepository.GetByID(ctx, orgID)
	if err != nil {
		return monthScope{}, err
	}
	clk, err := org.Clock()
	if err != nil {
		return monthScope{}, err
	}
	from, to, err := clk.ParseMonth(q.Month)
	if err != nil {
		return monthScope{}, err
	}

	minWork := defaultMinWorkMinutes
	if org.DefaultScheduleID != nil {
		ws, err := s.WorkScheduleRepository.GetByID(ctx, *org.DefaultScheduleID, orgID)
		switch {
		case err == nil:
			if ws.MinWorkMinutes != nil && *ws.MinWorkMinutes > 0 {
				minWork = *ws.MinWorkMinutes
			}
		case errors.Is(err, schedule.ErrScheduleNotFound):
		default:
			return monthScope{}, fmt.Errorf("failed to get default schedule: %w", err)
		}
	}

	return monthScope{
		orgID:          orgID,
		month:          q.Month,
		clk:            clk,
		from:           from,
		to:             to,
		minWorkMinutes: minWork,
	}, nil
}

// member loads the three independent inputs of one user's month in parallel.
func (s *StatsServiceImpl) member(ctx context.Context, userID string, scope monthScope) (stats.MonthlyStats, error) {
	data := monthData{minWorkMinutes: scope.minWorkMinutes}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		punches, err := s.PunchRepository.ListByUserInRange(gCtx, userID, scope.orgID, scope.from, scope.to)
		if err != nil {
			return err
		}
		data.punches = punches
		return nil
	})

	g.Go(func() error {
		requests, err := s.RequestRepository.ListApprovedInRange(gCtx, userID, scope.orgID, scope.from, scope.to)
		if err != nil {
			return err
		}
		data.requests = requests
		return nil
	})

	g.Go(func() error {
		counts, err := s.AnomalyRepository.CountInRange(gCtx, userID, scope.orgID, scope.from, scope.to)
		if err != nil {
			return err
		}
		data.anomalies = counts
		return nil
	})

	if err := g.Wait(); err != nil {
		return stats.MonthlyStats{}, err
	}

	return aggregate(userID, scope.month, data, scope.clk), nil
}
