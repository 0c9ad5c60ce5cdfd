package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workScheduleRepository struct {
	db *database.DB
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepository{db: db}
}

const workScheduleColumns = `
	id, org_id, name, start_minute, end_minute, break_start_minute, break_end_minute,
	late_grace_minutes, early_leave_grace_minutes, min_work_minutes, cross_day,
	created_at, updated_at
`

func scanWorkSchedule(row pgx.Row) (schedule.WorkSchedule, error) {
	var s schedule.WorkSchedule
	err := row.Scan(
		&s.ID, &s.OrgID, &s.Name, &s.StartMinutes, &s.EndMinutes, &s.BreakStartMinutes, &s.BreakEndMinutes,
		&s.LateGraceMinutes, &s.EarlyLeaveGraceMinutes, &s.MinWorkMinutes, &s.CrossDay,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) Create(ctx context.Context, s schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_schedules (
			org_id, name, start_minute, end_minute, break_start_minute, break_end_minute,
			late_grace_minutes, early_leave_grace_minutes, min_work_minutes, cross_day,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		s.OrgID, s.Name, s.StartMinutes, s.EndMinutes, s.BreakStartMinutes, s.BreakEndMinutes,
		s.LateGraceMinutes, s.EarlyLeaveGraceMinutes, s.MinWorkMinutes, s.CrossDay,
		s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("failed to create work schedule: %w", err)
	}
	return s, nil
}

// GetByID implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) GetByID(ctx context.Context, id string, orgID string) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workScheduleColumns + ` FROM work_schedules WHERE id = $1 AND org_id = $2`

	s, err := scanWorkSchedule(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.WorkSchedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.WorkSchedule{}, fmt.Errorf("failed to get work schedule: %w", err)
	}
	return s, nil
}

// ListByOrg implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) ListByOrg(ctx context.Context, orgID string) ([]schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workScheduleColumns + ` FROM work_schedules WHERE org_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]schedule.WorkSchedule, 0)
	for rows.Next() {
		s, err := scanWorkSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Update implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) Update(ctx context.Context, s schedule.WorkSchedule) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE work_schedules
		SET name = $3, start_minute = $4, end_minute = $5, break_start_minute = $6, break_end_minute = $7,
		    late_grace_minutes = $8, early_leave_grace_minutes = $9, min_work_minutes = $10,
		    cross_day = $11, updated_at = $12
		WHERE id = $1 AND org_id = $2
	`, s.ID, s.OrgID, s.Name, s.StartMinutes, s.EndMinutes, s.BreakStartMinutes, s.BreakEndMinutes,
		s.LateGraceMinutes, s.EarlyLeaveGraceMinutes, s.MinWorkMinutes, s.CrossDay, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update work schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

// Delete implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) Delete(ctx context.Context, id string, orgID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_schedules WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete work schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}
