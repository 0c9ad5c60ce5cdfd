package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
)

type ApprovalServiceImpl struct {
	tx database.Transactor
	request.RequestRepository
	request.ApprovalRepository
	now func() time.Time
}

func NewApprovalService(
	tx database.Transactor,
	requestRepo request.RequestRepository,
	approvalRepo request.ApprovalRepository,
	now func() time.Time,
) request.ApprovalService {
	if now == nil {
		now = time.Now
	}
	return &ApprovalServiceImpl{
		tx:                 tx,
		RequestRepository:  requestRepo,
		ApprovalRepository: approvalRepo,
		now:                now,
	}
}

// Pending implements request.ApprovalService.
func (s *ApprovalServiceImpl) Pending(ctx context.Context, approverID string, orgID string, page, pageSize int) (request.ListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	requests, total, err := s.ApprovalRepository.ListPendingForApprover(ctx, approverID, orgID, page, pageSize)
	if err != nil {
		return request.ListResponse{}, err
	}

	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	byRequest, err := s.ApprovalRepository.ListByRequestIDs(ctx, ids)
	if err != nil {
		return request.ListResponse{}, fmt.Errorf("failed to load approvals: %w", err)
	}
	for i := range requests {
		requests[i].Approvals = byRequest[requests[i].ID]
	}

	return request.NewListResponse(requests, total, page, pageSize), nil
}

// Decide implements request.ApprovalService.
//
// The request row is locked for the whole decision so two approvers of a
// multi-step chain cannot both observe "one step left". The approval row is
// flipped with a conditional update; losing that race yields
// ErrApprovalAlreadyDecided.
func (s *ApprovalServiceImpl) Decide(ctx context.Context, approverID string, orgID string, req request.DecisionRequest) (request.DecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return request.DecisionResponse{}, err
	}
	now := s.now().UTC()
	decision := request.Decision(req.Decision)

	var resp request.DecisionResponse

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.ApprovalRepository.GetPendingByRequestAndApprover(ctx, req.RequestID, approverID)
		if err != nil {
			return err
		}

		r, err := s.RequestRepository.GetByIDForUpdate(ctx, a.RequestID)
		if err != nil {
			return err
		}
		if r.OrgID != orgID {
			return request.ErrOrgAccessDenied
		}
		if r.Status != request.StatusPending {
			return request.ErrRequestNotPending
		}

		ok, err := s.ApprovalRepository.Decide(ctx, a.ID, decision, req.Comment, now)
		if err != nil {
			return err
		}
		if !ok {
			return request.ErrApprovalAlreadyDecided
		}

		status := r.Status
		approved := r.ApprovedDurationMinutes

		switch decision {
		case request.DecisionApproved:
			if req.ApprovedDurationMinutes != nil {
				if err := s.RequestRepository.SetApprovedDuration(ctx, r.ID, *req.ApprovedDurationMinutes, now); err != nil {
					return err
				}
				approved = req.ApprovedDurationMinutes
			}

		case request.DecisionRejected:
			if err := s.transition(ctx, r.ID, request.StatusRejected, now); err != nil {
				return err
			}
			status = request.StatusRejected

		case request.DecisionTransferred:
			slog.Warn("approval transferred; step closed without re-dispatch",
				"request_id", r.ID,
				"approval_id", a.ID,
				"approver_id", approverID,
			)
		}

		remaining, err := s.ApprovalRepository.CountPending(ctx, r.ID)
		if err != nil {
			return err
		}

		if decision == request.DecisionApproved && remaining == 0 {
			if err := s.transition(ctx, r.ID, request.StatusApproved, now); err != nil {
				return err
			}
			status = request.StatusApproved
		}

		resp = request.DecisionResponse{
			RequestID:               r.ID,
			Decision:                decision,
			RequestStatus:           status,
			ApprovedDurationMinutes: approved,
			RemainingSteps:          remaining,
		}
		return nil
	})
	if err != nil {
		return request.DecisionResponse{}, err
	}

	slog.Info("approval decided",
		"request_id", resp.RequestID,
		"approver_id", approverID,
		"decision", resp.Decision,
		"request_status", resp.RequestStatus,
		"remaining_steps", resp.RemainingSteps,
	)
	return resp, nil
}

func (s *ApprovalServiceImpl) transition(ctx context.Context, requestID string, to request.Status, now time.Time) error {
	ok, err := s.RequestRepository.UpdateStatus(ctx, requestID, request.StatusPending, to, now)
	if err != nil {
		return err
	}
	if !ok {
		return request.ErrRequestNotPending
	}
	return nil
}
