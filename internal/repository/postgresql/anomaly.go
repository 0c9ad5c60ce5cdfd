package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type anomalyRepository struct {
	db *database.DB
}

func NewAnomalyRepository(db *database.DB) anomaly.AnomalyRepository {
	return &anomalyRepository{db: db}
}

// Create implements anomaly.AnomalyRepository.
func (r *anomalyRepository) Create(ctx context.Context, a anomaly.Anomaly) (anomaly.Anomaly, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO anomalies (org_id, user_id, anomaly_date, anomaly_type, severity, status, related_punch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		a.OrgID, a.UserID, a.Date, string(a.Type), string(a.Severity), string(a.Status), a.RelatedPunchID, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return anomaly.Anomaly{}, fmt.Errorf("failed to create anomaly: %w", err)
	}
	return a, nil
}

// CreateIfAbsent implements anomaly.AnomalyRepository.
func (r *anomalyRepository) CreateIfAbsent(ctx context.Context, a anomaly.Anomaly) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO anomalies (org_id, user_id, anomaly_date, anomaly_type, severity, status, related_punch_id, created_at)
		SELECT $1::uuid, $2::uuid, $3::timestamptz, $4, $5, $6, $7::uuid, $8::timestamptz
		WHERE NOT EXISTS (
			SELECT 1 FROM anomalies
			WHERE user_id = $2 AND org_id = $1 AND anomaly_date = $3 AND anomaly_type = $4
		)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		a.OrgID, a.UserID, a.Date, string(a.Type), string(a.Severity), string(a.Status), a.RelatedPunchID, a.CreatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create anomaly: %w", err)
	}
	return true, nil
}

// CountInRange implements anomaly.AnomalyRepository.
func (r *anomalyRepository) CountInRange(ctx context.Context, userID string, orgID string, from, to time.Time) (anomaly.Counts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE anomaly_type = 'LATE'),
			COUNT(*) FILTER (WHERE anomaly_type = 'EARLY_LEAVE')
		FROM anomalies
		WHERE user_id = $1 AND org_id = $2
		  AND anomaly_date >= $3 AND anomaly_date < $4
	`

	var c anomaly.Counts
	if err := q.QueryRow(ctx, query, userID, orgID, from, to).Scan(&c.Total, &c.Late, &c.EarlyLeave); err != nil {
		return anomaly.Counts{}, fmt.Errorf("failed to count anomalies: %w", err)
	}
	return c, nil
}
