package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type organizationRepository struct {
	db                   *database.DB
	defaultOffsetMinutes int
}

// NewOrganizationRepository reads organizations; rows without an offset
// report defaultOffsetMinutes.
func NewOrganizationRepository(db *database.DB, defaultOffsetMinutes int) organization.OrganizationRepository {
	return &organizationRepository{db: db, defaultOffsetMinutes: defaultOffsetMinutes}
}

// GetByID implements organization.OrganizationRepository.
func (r *organizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, COALESCE(utc_offset_minutes, $2), timezone, default_schedule_id
		FROM organizations
		WHERE id = $1
	`

	var org organization.Organization
	err := q.QueryRow(ctx, query, id, r.defaultOffsetMinutes).Scan(
		&org.ID, &org.Name, &org.UTCOffsetMinutes, &org.Timezone, &org.DefaultScheduleID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Organization{}, organization.ErrOrganizationNotFound
		}
		return organization.Organization{}, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// ListIDs implements organization.OrganizationRepository.
func (r *organizationRepository) ListIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM organizations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan organization ids: %w", err)
	}
	return ids, nil
}

// SetDefaultSchedule implements organization.OrganizationRepository.
func (r *organizationRepository) SetDefaultSchedule(ctx context.Context, id string, scheduleID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE organizations
		SET default_schedule_id = $2, updated_at = NOW()
		WHERE id = $1
	`, id, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to set default schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return organization.ErrOrganizationNotFound
	}
	return nil
}
