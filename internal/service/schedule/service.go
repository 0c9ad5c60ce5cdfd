package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
)

type scheduleServiceImpl struct {
	tx               database.Transactor
	workScheduleRepo schedule.WorkScheduleRepository
	organizationRepo organization.OrganizationRepository
	now              func() time.Time
}

// List implements schedule.ScheduleService.
func (s *scheduleServiceImpl) List(ctx context.Context, orgID string) ([]schedule.ScheduleResponse, error) {
	org, err := s.organizationRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	schedules, err := s.workScheduleRepo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	result := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, ws := range schedules {
		result = append(result, schedule.NewScheduleResponse(ws, org.DefaultScheduleID))
	}
	return result, nil
}

// Get implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Get(ctx context.Context, orgID string, id string) (schedule.ScheduleResponse, error) {
	org, err := s.organizationRepo.GetByID(ctx, orgID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	ws, err := s.workScheduleRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return schedule.NewScheduleResponse(ws, org.DefaultScheduleID), nil
}

// Create implements schedule.ScheduleService. The first schedule of an
// organization becomes its default.
func (s *scheduleServiceImpl) Create(ctx context.Context, orgID string, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	var created schedule.WorkSchedule
	var defaultID *string

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		org, err := s.organizationRepo.GetByID(ctx, orgID)
		if err != nil {
			return err
		}

		created, err = s.workScheduleRepo.Create(ctx, req.ToEntity(orgID, s.now().UTC()))
		if err != nil {
			return err
		}

		defaultID = org.DefaultScheduleID
		if defaultID == nil {
			defaultID = &created.ID
			if err := s.organizationRepo.SetDefaultSchedule(ctx, orgID, defaultID); err != nil {
				return fmt.Errorf("failed to set default schedule: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	slog.Info("work schedule created", "org_id", orgID, "schedule_id", created.ID, "is_default", *defaultID == created.ID)
	return schedule.NewScheduleResponse(created, defaultID), nil
}

// Update implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Update(ctx context.Context, orgID string, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	org, err := s.organizationRepo.GetByID(ctx, orgID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	ws, err := s.workScheduleRepo.GetByID(ctx, req.ID, orgID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	if err := req.Apply(&ws, s.now().UTC()); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if err := s.workScheduleRepo.Update(ctx, ws); err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return schedule.NewScheduleResponse(ws, org.DefaultScheduleID), nil
}

// Delete implements schedule.ScheduleService.
func (s *scheduleServiceImpl) Delete(ctx context.Context, orgID string, id string) error {
	org, err := s.organizationRepo.GetByID(ctx, orgID)
	if err != nil {
		return err
	}
	if org.DefaultScheduleID != nil && *org.DefaultScheduleID == id {
		return schedule.ErrCannotDeleteDefault
	}
	return s.workScheduleRepo.Delete(ctx, id, orgID)
}

// SetDefault implements schedule.ScheduleService.
func (s *scheduleServiceImpl) SetDefault(ctx context.Context, orgID string, id string) (schedule.ScheduleResponse, error) {
	ws, err := s.workScheduleRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	if err := s.organizationRepo.SetDefaultSchedule(ctx, orgID, &ws.ID); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	slog.Info("default work schedule changed", "org_id", orgID, "schedule_id", ws.ID)
	return schedule.NewScheduleResponse(ws, &ws.ID), nil
}

// GetDefault implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetDefault(ctx context.Context, orgID string) (*schedule.WorkSchedule, error) {
	org, err := s.organizationRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.DefaultScheduleID == nil {
		return nil, nil
	}

	ws, err := s.workScheduleRepo.GetByID(ctx, *org.DefaultScheduleID, orgID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ws, nil
}

func NewScheduleService(
	tx database.Transactor,
	workScheduleRepo schedule.WorkScheduleRepository,
	organizationRepo organization.OrganizationRepository,
	now func() time.Time,
) schedule.ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &scheduleServiceImpl{
		tx:               tx,
		workScheduleRepo: workScheduleRepo,
		organizationRepo: organizationRepo,
		now:              now,
	}
}
