package request

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
)

type RequestServiceImpl struct {
	tx database.Transactor
	request.RequestRepository
	request.ApprovalRepository
	organization.OrganizationRepository
	strategy request.ApproverStrategy
	now      func() time.Time
}

func NewRequestService(
	tx database.Transactor,
	requestRepo request.RequestRepository,
	approvalRepo request.ApprovalRepository,
	organizationRepo organization.OrganizationRepository,
	strategy request.ApproverStrategy,
	now func() time.Time,
) request.RequestService {
	if now == nil {
		now = time.Now
	}
	return &RequestServiceImpl{
		tx:                     tx,
		RequestRepository:      requestRepo,
		ApprovalRepository:     approvalRepo,
		OrganizationRepository: organizationRepo,
		strategy:               strategy,
		now:                    now,
	}
}

// Create implements request.RequestService.
func (s *RequestServiceImpl) Create(ctx context.Context, requesterID string, orgID string, req request.CreateRequest) (request.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return request.RequestResponse{}, err
	}
	now := s.now().UTC()

	org, err := s.OrganizationRepository.GetByID(ctx, orgID)
	if err != nil {
		return request.RequestResponse{}, err
	}
	clk, err := org.Clock()
	if err != nil {
		return request.RequestResponse{}, err
	}

	start, end := req.Interval()
	title := Title(request.Type(req.RequestType), start, end, req.LeaveCategory, req.Destination, clk)
	r := request.NewRequest(orgID, requesterID, req, title, now)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		overlap, err := s.RequestRepository.HasOverlap(ctx, requesterID, orgID, start, end)
		if err != nil {
			return err
		}
		if overlap {
			return request.ErrRequestConflict
		}

		approvers, err := s.strategy.Approvers(ctx, r)
		if err != nil {
			return err
		}
		if len(approvers) == 0 {
			r.Status = request.StatusApproved
		}

		r, err = s.RequestRepository.Create(ctx, r)
		if err != nil {
			return err
		}

		for i, approverID := range approvers {
			a, err := s.ApprovalRepository.Create(ctx, request.NewApproval(r.ID, i+1, approverID, now))
			if err != nil {
				return err
			}
			r.Approvals = append(r.Approvals, a)
		}
		return nil
	})
	if err != nil {
		return request.RequestResponse{}, err
	}

	slog.Info("request submitted",
		"request_id", r.ID,
		"org_id", orgID,
		"requester_id", requesterID,
		"type", r.Type,
		"steps", len(r.Approvals),
		"status", r.Status,
	)
	return request.NewRequestResponse(r), nil
}

// List implements request.RequestService.
func (s *RequestServiceImpl) List(ctx context.Context, requesterID string, orgID string, filter request.ListFilter) (request.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return request.ListResponse{}, err
	}
	filter.Normalize()

	requests, total, err := s.RequestRepository.ListByRequester(ctx, requesterID, orgID, filter)
	if err != nil {
		return request.ListResponse{}, err
	}

	if err := attachApprovals(ctx, s.ApprovalRepository, requests); err != nil {
		return request.ListResponse{}, err
	}
	return request.NewListResponse(requests, total, filter.Page, filter.PageSize), nil
}

// Get implements request.RequestService. The requester, any approver on the
// chain and ADMIN/HR/MANAGER users of the organization may view a request.
func (s *RequestServiceImpl) Get(ctx context.Context, id string, viewerID string, orgID string, roles []user.Role) (request.RequestResponse, error) {
	r, err := s.RequestRepository.GetByID(ctx, id, orgID)
	if err != nil {
		return request.RequestResponse{}, err
	}

	requests := []request.Request{r}
	if err := attachApprovals(ctx, s.ApprovalRepository, requests); err != nil {
		return request.RequestResponse{}, err
	}
	r = requests[0]

	if !canView(r, viewerID, roles) {
		return request.RequestResponse{}, request.ErrRequestAccessDenied
	}
	return request.NewRequestResponse(r), nil
}

// Cancel implements request.RequestService.
func (s *RequestServiceImpl) Cancel(ctx context.Context, id string, requesterID string, orgID string) error {
	now := s.now().UTC()

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.RequestRepository.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r.OrgID != orgID {
			return request.ErrRequestNotFound
		}
		if r.RequesterID != requesterID {
			return request.ErrNotRequester
		}
		if r.Status != request.StatusPending {
			return request.ErrRequestNotPending
		}

		ok, err := s.RequestRepository.UpdateStatus(ctx, id, request.StatusPending, request.StatusCanceled, now)
		if err != nil {
			return err
		}
		if !ok {
			return request.ErrRequestNotPending
		}

		slog.Info("request canceled", "request_id", id, "requester_id", requesterID)
		return nil
	})
}

func canView(r request.Request, viewerID string, roles []user.Role) bool {
	if r.RequesterID == viewerID {
		return true
	}
	for _, a := range r.Approvals {
		if a.ApproverID == viewerID {
			return true
		}
	}
	for _, role := range roles {
		switch role {
		case user.RoleAdmin, user.RoleHR, user.RoleManager:
			return true
		}
	}
	return false
}

// attachApprovals loads the approval chains of requests in one query.
func attachApprovals(ctx context.Context, approvals request.ApprovalRepository, requests []request.Request) error {
	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}

	byRequest, err := approvals.ListByRequestIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load approvals: %w", err)
	}
	for i := range requests {
		requests[i].Approvals = byRequest[requests[i].ID]
	}
	return nil
}
