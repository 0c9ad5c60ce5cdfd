package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

const punchColumns = `
	id, org_id, user_id, punch_type, punched_at, lat, lng, accuracy_m,
	geo_fence_id, distance_to_fence_m, in_fence, verify_method, verify_status,
	evidence_url, device_info, ip_address, schedule_id, status,
	late_minutes, early_leave_minutes, created_at
`

func scanPunch(row pgx.Row) (punch.Punch, error) {
	var p punch.Punch
	err := row.Scan(
		&p.ID, &p.OrgID, &p.UserID, &p.Type, &p.PunchedAt, &p.Latitude, &p.Longitude, &p.AccuracyMeters,
		&p.GeoFenceID, &p.DistanceToFenceMeters, &p.InFence, &p.VerifyMethod, &p.VerifyStatus,
		&p.EvidenceURL, &p.DeviceInfo, &p.IPAddress, &p.ScheduleID, &p.Status,
		&p.LateMinutes, &p.EarlyLeaveMinutes, &p.CreatedAt,
	)
	return p, err
}

// CreateIfAbsent implements punch.PunchRepository.
// A transaction-scoped advisory lock on (user, type) serialises concurrent
// punches of the same user so the NOT EXISTS check cannot race.
func (r *punchRepository) CreateIfAbsent(ctx context.Context, p punch.Punch, dayStart, dayEnd time.Time) (punch.Punch, error) {
	err := NewTransactor(r.db).WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))`,
			p.UserID, string(p.Type),
		); err != nil {
			return fmt.Errorf("failed to lock punch slot: %w", err)
		}

		query := `
			INSERT INTO punches (
				org_id, user_id, punch_type, punched_at, lat, lng, accuracy_m,
				geo_fence_id, distance_to_fence_m, in_fence, verify_method, verify_status,
				evidence_url, device_info, ip_address, schedule_id, status,
				late_minutes, early_leave_minutes, created_at
			)
			SELECT $1::uuid, $2::uuid, $3, $4::timestamptz, $5::float8, $6::float8, $7::float8,
				$8::uuid, $9::int, $10::bool, $11, $12, $13, $14, $15, $16::uuid, $17,
				$18::int, $19::int, $20::timestamptz
			WHERE NOT EXISTS (
				SELECT 1 FROM punches
				WHERE user_id = $2 AND punch_type = $3
				  AND punched_at >= $21 AND punched_at < $22
			)
			RETURNING id
		`

		err := q.QueryRow(ctx, query,
			p.OrgID, p.UserID, string(p.Type), p.PunchedAt, p.Latitude, p.Longitude, p.AccuracyMeters,
			p.GeoFenceID, p.DistanceToFenceMeters, p.InFence, string(p.VerifyMethod), string(p.VerifyStatus),
			p.EvidenceURL, p.DeviceInfo, p.IPAddress, p.ScheduleID, string(p.Status),
			p.LateMinutes, p.EarlyLeaveMinutes, p.CreatedAt,
			dayStart, dayEnd,
		).Scan(&p.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return punch.ErrAlreadyPunched
			}
			return fmt.Errorf("failed to create punch: %w", err)
		}
		return nil
	})
	if err != nil {
		return punch.Punch{}, err
	}
	return p, nil
}

// ListByUserInRange implements punch.PunchRepository.
func (r *punchRepository) ListByUserInRange(ctx context.Context, userID string, orgID string, from, to time.Time) ([]punch.Punch, error) {
	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE user_id = $1 AND org_id = $2
		  AND punched_at >= $3 AND punched_at < $4
		ORDER BY punched_at ASC
	`
	return r.list(ctx, query, userID, orgID, from, to)
}

// ListByOrgInRange implements punch.PunchRepository.
func (r *punchRepository) ListByOrgInRange(ctx context.Context, orgID string, from, to time.Time) ([]punch.Punch, error) {
	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE org_id = $1
		  AND punched_at >= $2 AND punched_at < $3
		ORDER BY user_id, punched_at ASC
	`
	return r.list(ctx, query, orgID, from, to)
}

func (r *punchRepository) list(ctx context.Context, query string, args ...interface{}) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	punches := make([]punch.Punch, 0)
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}
