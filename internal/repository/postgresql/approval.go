package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type approvalRepository struct {
	db *database.DB
}

func NewApprovalRepository(db *database.DB) request.ApprovalRepository {
	return &approvalRepository{db: db}
}

const approvalColumns = `
	a.id, a.request_id, a.step_no, a.approver_id, a.decision, a.comment,
	a.decided_at, a.created_at, u.full_name
`

func scanApproval(row pgx.Row) (request.Approval, error) {
	var a request.Approval
	err := row.Scan(
		&a.ID, &a.RequestID, &a.StepNo, &a.ApproverID, &a.Decision, &a.Comment,
		&a.DecidedAt, &a.CreatedAt, &a.ApproverName,
	)
	return a, err
}

// Create implements request.ApprovalRepository.
func (r *approvalRepository) Create(ctx context.Context, a request.Approval) (request.Approval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO request_approvals (request_id, step_no, approver_id, decision, comment, decided_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		a.RequestID, a.StepNo, a.ApproverID, string(a.Decision), a.Comment, a.DecidedAt, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return request.Approval{}, fmt.Errorf("failed to create approval: %w", err)
	}
	return a, nil
}

// GetPendingByRequestAndApprover implements request.ApprovalRepository.
func (r *approvalRepository) GetPendingByRequestAndApprover(ctx context.Context, requestID string, approverID string) (request.Approval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + approvalColumns + `
		FROM request_approvals a
		LEFT JOIN users u ON u.id = a.approver_id
		WHERE a.request_id = $1 AND a.approver_id = $2 AND a.decision = 'PENDING'
		ORDER BY a.step_no ASC
		LIMIT 1
	`

	a, err := scanApproval(q.QueryRow(ctx, query, requestID, approverID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Approval{}, request.ErrApprovalNotPending
		}
		return request.Approval{}, fmt.Errorf("failed to get pending approval: %w", err)
	}
	return a, nil
}

// Decide implements request.ApprovalRepository.
func (r *approvalRepository) Decide(ctx context.Context, id string, decision request.Decision, comment *string, decidedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE request_approvals
		SET decision = $2, comment = $3, decided_at = $4
		WHERE id = $1 AND decision = 'PENDING'
	`

	tag, err := q.Exec(ctx, query, id, string(decision), comment, decidedAt)
	if err != nil {
		return false, fmt.Errorf("failed to decide approval: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountPending implements request.ApprovalRepository.
func (r *approvalRepository) CountPending(ctx context.Context, requestID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM request_approvals WHERE request_id = $1 AND decision = 'PENDING'`,
		requestID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending approvals: %w", err)
	}
	return n, nil
}

// ListByRequestIDs implements request.ApprovalRepository.
func (r *approvalRepository) ListByRequestIDs(ctx context.Context, requestIDs []string) (map[string][]request.Approval, error) {
	result := make(map[string][]request.Approval, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + approvalColumns + `
		FROM request_approvals a
		LEFT JOIN users u ON u.id = a.approver_id
		WHERE a.request_id = ANY($1::uuid[])
		ORDER BY a.request_id, a.step_no ASC
	`

	rows, err := q.Query(ctx, query, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		result[a.RequestID] = append(result[a.RequestID], a)
	}
	return result, rows.Err()
}

// ListPendingForApprover implements request.ApprovalRepository.
func (r *approvalRepository) ListPendingForApprover(ctx context.Context, approverID string, orgID string, page, pageSize int) ([]request.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM request_approvals a
		JOIN requests r ON r.id = a.request_id
		LEFT JOIN users u ON u.id = r.requester_id
		WHERE a.approver_id = $1
		  AND a.decision = 'PENDING'
		  AND r.org_id = $2
		  AND r.status = 'PENDING'
	`

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, approverID, orgID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending approvals: %w", err)
	}

	selectQuery := `SELECT ` + requestColumns + baseQuery + `
		ORDER BY r.created_at ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := q.Query(ctx, selectQuery, approverID, orgID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query pending approvals: %w", err)
	}
	defer rows.Close()

	requests := make([]request.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}
