package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type requestRepository struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) request.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `
	r.id, r.org_id, r.requester_id, r.request_type, r.title, r.reason,
	r.leave_category, r.destination, r.start_at, r.end_at,
	r.duration_minutes, r.approved_duration_minutes, r.status,
	r.created_at, r.updated_at, u.full_name
`

const requestFrom = `
	FROM requests r
	LEFT JOIN users u ON u.id = r.requester_id
`

func scanRequest(row pgx.Row) (request.Request, error) {
	var r request.Request
	err := row.Scan(
		&r.ID, &r.OrgID, &r.RequesterID, &r.Type, &r.Title, &r.Reason,
		&r.LeaveCategory, &r.Destination, &r.StartAt, &r.EndAt,
		&r.DurationMinutes, &r.ApprovedDurationMinutes, &r.Status,
		&r.CreatedAt, &r.UpdatedAt, &r.RequesterName,
	)
	return r, err
}

// Create implements request.RequestRepository.
func (r *requestRepository) Create(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO requests (
			org_id, requester_id, request_type, title, reason, leave_category, destination,
			start_at, end_at, duration_minutes, approved_duration_minutes, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		req.OrgID, req.RequesterID, string(req.Type), req.Title, req.Reason, req.LeaveCategory, req.Destination,
		req.StartAt, req.EndAt, req.DurationMinutes, req.ApprovedDurationMinutes, string(req.Status),
		req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

// GetByID implements request.RequestRepository.
func (r *requestRepository) GetByID(ctx context.Context, id string, orgID string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + requestFrom + ` WHERE r.id = $1 AND r.org_id = $2`

	req, err := scanRequest(q.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get request by ID: %w", err)
	}
	return req, nil
}

// GetByIDForUpdate implements request.RequestRepository.
func (r *requestRepository) GetByIDForUpdate(ctx context.Context, id string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + requestFrom + ` WHERE r.id = $1 FOR UPDATE OF r`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to lock request: %w", err)
	}
	return req, nil
}

// HasOverlap implements request.RequestRepository.
func (r *requestRepository) HasOverlap(ctx context.Context, requesterID string, orgID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended('request:' || $1::text, 0))`, requesterID); err != nil {
		return false, fmt.Errorf("failed to lock requester: %w", err)
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM requests
			WHERE requester_id = $1 AND org_id = $2
			  AND status IN ('PENDING', 'APPROVED')
			  AND start_at <= $4 AND end_at >= $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, requesterID, orgID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check request overlap: %w", err)
	}
	return exists, nil
}

// ListByRequester implements request.RequestRepository.
func (r *requestRepository) ListByRequester(ctx context.Context, requesterID string, orgID string, filter request.ListFilter) ([]request.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := requestFrom + ` WHERE r.requester_id = $1 AND r.org_id = $2`
	args := []interface{}{requesterID, orgID}
	argIdx := 3

	var whereClauses []string
	if filter.Status != nil && *filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("r.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("r.request_type = $%d", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}
	if len(whereClauses) > 0 {
		baseQuery += " AND " + strings.Join(whereClauses, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	selectQuery := `SELECT ` + requestColumns + baseQuery + ` ORDER BY r.created_at DESC`
	selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	requests, err := r.list(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListApprovedInRange implements request.RequestRepository.
func (r *requestRepository) ListApprovedInRange(ctx context.Context, requesterID string, orgID string, from, to time.Time) ([]request.Request, error) {
	query := `SELECT ` + requestColumns + requestFrom + `
		WHERE r.requester_id = $1 AND r.org_id = $2
		  AND r.status = 'APPROVED'
		  AND r.start_at < $4 AND r.end_at >= $3
		ORDER BY r.start_at ASC
	`
	return r.list(ctx, query, requesterID, orgID, from, to)
}

// UpdateStatus implements request.RequestRepository.
func (r *requestRepository) UpdateStatus(ctx context.Context, id string, from request.Status, to request.Status, now time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE requests SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`

	tag, err := q.Exec(ctx, query, id, string(from), string(to), now)
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetApprovedDuration implements request.RequestRepository.
func (r *requestRepository) SetApprovedDuration(ctx context.Context, id string, minutes int, now time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE requests SET approved_duration_minutes = $2, updated_at = $3 WHERE id = $1`

	tag, err := q.Exec(ctx, query, id, minutes, now)
	if err != nil {
		return fmt.Errorf("failed to set approved duration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return request.ErrRequestNotFound
	}
	return nil
}

func (r *requestRepository) list(ctx context.Context, query string, args ...interface{}) ([]request.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := make([]request.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
