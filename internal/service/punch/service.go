package punch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/geo"
)

type PunchServiceImpl struct {
	tx database.Transactor
	punch.PunchRepository
	anomaly.AnomalyRepository
	geofence.GeoFenceRepository
	schedule.WorkScheduleRepository
	organization.OrganizationRepository
	now func() time.Time
}

func NewPunchService(
	tx database.Transactor,
	punchRepo punch.PunchRepository,
	anomalyRepo anomaly.AnomalyRepository,
	geoFenceRepo geofence.GeoFenceRepository,
	workScheduleRepo schedule.WorkScheduleRepository,
	organizationRepo organization.OrganizationRepository,
	now func() time.Time,
) punch.PunchService {
	if now == nil {
		now = time.Now
	}
	return &PunchServiceImpl{
		tx:                     tx,
		PunchRepository:        punchRepo,
		AnomalyRepository:      anomalyRepo,
		GeoFenceRepository:     geoFenceRepo,
		WorkScheduleRepository: workScheduleRepo,
		OrganizationRepository: organizationRepo,
		now:                    now,
	}
}

// Punch implements punch.PunchService.
func (s *PunchServiceImpl) Punch(ctx context.Context, userID string, orgID string, req punch.CreatePunchRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}
	now := s.now().UTC()

	org, clk, err := s.organizationClock(ctx, orgID)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	dayStart := clk.StartOfDay(now)
	dayEnd := clk.NextDay(now)

	method := req.Method()
	p := punch.Punch{
		OrgID:          orgID,
		UserID:         userID,
		Type:           punch.Type(req.PunchType),
		PunchedAt:      now,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		VerifyMethod:   method,
		VerifyStatus:   punch.VerifyStatusFor(method, req.EvidenceURL),
		EvidenceURL:    req.EvidenceURL,
		DeviceInfo:     req.DeviceInfo,
		IPAddress:      req.IPAddress,
		CreatedAt:      now,
	}

	var resolution geo.Resolution
	if point := p.Point(); point != nil {
		fences, err := s.GeoFenceRepository.ListActiveByOrg(ctx, orgID)
		if err != nil {
			return punch.PunchResponse{}, fmt.Errorf("failed to list geofences: %w", err)
		}
		resolution = geo.Resolve(point, geofence.ToGeoFences(fences))
		inFence := resolution.InFence
		p.InFence = &inFence
		p.GeoFenceID = resolution.FenceID
		p.DistanceToFenceMeters = resolution.DistanceMeters
	} else {
		resolution = geo.Resolve(nil, nil)
	}

	sched, err := s.defaultSchedule(ctx, org)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	if sched != nil {
		p.ScheduleID = &sched.ID
	}

	c := classify(p.Type, clk.LocalMinutes(now), sched)
	p.Status = c.status
	p.LateMinutes = c.lateMinutes
	p.EarlyLeaveMinutes = c.earlyLeaveMinutes

	var anomalies []anomaly.Type
	switch {
	case resolution.LocationDenied:
		anomalies = append(anomalies, anomaly.TypeLocationDenied)
	case !resolution.InFence:
		anomalies = append(anomalies, anomaly.TypeOutOfFence)
	}
	if c.anomaly != nil {
		anomalies = append(anomalies, *c.anomaly)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.PunchRepository.CreateIfAbsent(ctx, p, dayStart, dayEnd)
		if err != nil {
			return err
		}
		p = created

		for _, t := range anomalies {
			if _, err := s.AnomalyRepository.Create(ctx, anomaly.New(orgID, userID, dayStart, t, &p.ID, now)); err != nil {
				return fmt.Errorf("failed to record %s anomaly: %w", t, err)
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, punch.ErrAlreadyPunched) {
			slog.Error("punch failed", "user_id", userID, "org_id", orgID, "punch_type", p.Type, "error", err)
		}
		return punch.PunchResponse{}, err
	}

	slog.Info("punch recorded",
		"user_id", userID,
		"org_id", orgID,
		"punch_type", p.Type,
		"status", p.Status,
		"anomalies", len(anomalies),
	)

	return punch.PunchResponse{
		ID:                    p.ID,
		PunchType:             p.Type,
		PunchedAt:             p.PunchedAt.Format(time.RFC3339),
		InFence:               p.InFence,
		GeoFenceID:            p.GeoFenceID,
		DistanceToFenceMeters: p.DistanceToFenceMeters,
		VerifyStatus:          p.VerifyStatus,
		Status:                p.Status,
		LateMinutes:           p.LateMinutes,
		EarlyLeaveMinutes:     p.EarlyLeaveMinutes,
		Message:               c.message,
		ScheduleInfo:          c.scheduleInfo,
	}, nil
}

// Today implements punch.PunchService.
func (s *PunchServiceImpl) Today(ctx context.Context, userID string, orgID string) (punch.TodayPunchesResponse, error) {
	now := s.now().UTC()

	_, clk, err := s.organizationClock(ctx, orgID)
	if err != nil {
		return punch.TodayPunchesResponse{}, err
	}

	punches, err := s.PunchRepository.ListByUserInRange(ctx, userID, orgID, clk.StartOfDay(now), clk.NextDay(now))
	if err != nil {
		return punch.TodayPunchesResponse{}, err
	}

	in, out := latestByType(punches)
	return punch.TodayPunchesResponse{
		Date:     clk.DateKey(now),
		PunchIn:  summarize(in, clk),
		PunchOut: summarize(out, clk),
	}, nil
}

// History implements punch.PunchService.
func (s *PunchServiceImpl) History(ctx context.Context, userID string, orgID string, filter punch.HistoryFilter) (punch.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return punch.HistoryResponse{}, err
	}
	filter.Normalize()

	_, clk, err := s.organizationClock(ctx, orgID)
	if err != nil {
		return punch.HistoryResponse{}, err
	}

	from, err := clk.ParseDate(filter.From)
	if err != nil {
		return punch.HistoryResponse{}, err
	}
	to, err := clk.ParseDate(filter.To)
	if err != nil {
		return punch.HistoryResponse{}, err
	}

	punches, err := s.PunchRepository.ListByUserInRange(ctx, userID, orgID, from, clk.NextDay(to))
	if err != nil {
		return punch.HistoryResponse{}, err
	}

	byDate := make(map[string][]punch.Punch)
	for _, p := range punches {
		key := clk.DateKey(p.PunchedAt)
		byDate[key] = append(byDate[key], p)
	}

	days := make([]punch.HistoryDay, 0, len(byDate))
	for date, dayPunches := range byDate {
		in, out := latestByType(dayPunches)
		days = append(days, punch.HistoryDay{
			Date:     date,
			PunchIn:  summarize(in, clk),
			PunchOut: summarize(out, clk),
		})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})

	total := len(days)
	start := (filter.Page - 1) * filter.PageSize
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}

	totalPages := (total + filter.PageSize - 1) / filter.PageSize

	return punch.HistoryResponse{
		Items:      days[start:end],
		Total:      int64(total),
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// CurrentSchedule implements punch.PunchService.
func (s *PunchServiceImpl) CurrentSchedule(ctx context.Context, orgID string) (*schedule.ScheduleResponse, error) {
	org, err := s.OrganizationRepository.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	sched, err := s.defaultSchedule(ctx, org)
	if err != nil || sched == nil {
		return nil, err
	}

	resp := schedule.NewScheduleResponse(*sched, org.DefaultScheduleID)
	return &resp, nil
}

func (s *PunchServiceImpl) organizationClock(ctx context.Context, orgID string) (organization.Organization, clock.Clock, error) {
	org, err := s.OrganizationRepository.GetByID(ctx, orgID)
	if err != nil {
		return organization.Organization{}, clock.Clock{}, err
	}
	clk, err := org.Clock()
	if err != nil {
		return organization.Organization{}, clock.Clock{}, err
	}
	return org, clk, nil
}

// defaultSchedule returns nil when the organization has no usable default.
func (s *PunchServiceImpl) defaultSchedule(ctx context.Context, org organization.Organization) (*schedule.WorkSchedule, error) {
	if org.DefaultScheduleID == nil {
		return nil, nil
	}
	sched, err := s.WorkScheduleRepository.GetByID(ctx, *org.DefaultScheduleID, org.ID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default schedule: %w", err)
	}
	return &sched, nil
}

// latestByType picks the most recent IN and OUT from punches.
func latestByType(punches []punch.Punch) (in, out *punch.Punch) {
	for i := range punches {
		p := &punches[i]
		switch p.Type {
		case punch.TypeIn:
			if in == nil || p.PunchedAt.After(in.PunchedAt) {
				in = p
			}
		case punch.TypeOut:
			if out == nil || p.PunchedAt.After(out.PunchedAt) {
				out = p
			}
		}
	}
	return in, out
}

func summarize(p *punch.Punch, clk clock.Clock) *punch.PunchSummary {
	if p == nil {
		return nil
	}
	return &punch.PunchSummary{
		ID:           p.ID,
		PunchType:    p.Type,
		PunchedAt:    p.PunchedAt.UTC().Format(time.RFC3339),
		LocalTime:    clk.LocalHHMM(p.PunchedAt),
		InFence:      p.InFence,
		Status:       p.Status,
		VerifyStatus: p.VerifyStatus,
	}
}
