package request

import (
	"context"
	"time"
)

type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string, orgID string) (Request, error)

	// GetByIDForUpdate locks the row for the rest of the transaction. It does
	// not filter by organization so callers can detect cross-org access.
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)

	// HasOverlap reports a PENDING or APPROVED request of the requester whose
	// interval intersects [start, end]. Inside a transaction it also holds a
	// per-requester lock until commit.
	HasOverlap(ctx context.Context, requesterID string, orgID string, start, end time.Time) (bool, error)

	ListByRequester(ctx context.Context, requesterID string, orgID string, filter ListFilter) ([]Request, int64, error)

	// ListApprovedInRange returns APPROVED requests with end_at >= from and start_at < to.
	ListApprovedInRange(ctx context.Context, requesterID string, orgID string, from, to time.Time) ([]Request, error)

	// UpdateStatus moves the request from one status to another and reports
	// whether the row was in the expected status.
	UpdateStatus(ctx context.Context, id string, from Status, to Status, now time.Time) (bool, error)

	SetApprovedDuration(ctx context.Context, id string, minutes int, now time.Time) error
}

type ApprovalRepository interface {
	Create(ctx context.Context, a Approval) (Approval, error)
	GetPendingByRequestAndApprover(ctx context.Context, requestID string, approverID string) (Approval, error)

	// Decide flips a PENDING row to decision. It reports false when the row
	// was no longer PENDING.
	Decide(ctx context.Context, id string, decision Decision, comment *string, decidedAt time.Time) (bool, error)

	CountPending(ctx context.Context, requestID string) (int, error)
	ListByRequestIDs(ctx context.Context, requestIDs []string) (map[string][]Approval, error)

	// ListPendingForApprover returns requests still PENDING in orgID that wait on approverID.
	ListPendingForApprover(ctx context.Context, approverID string, orgID string, page, pageSize int) ([]Request, int64, error)
}
