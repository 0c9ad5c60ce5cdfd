package request

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
)

type RequestService interface {
	Create(ctx context.Context, requesterID string, orgID string, req CreateRequest) (RequestResponse, error)
	List(ctx context.Context, requesterID string, orgID string, filter ListFilter) (ListResponse, error)
	Get(ctx context.Context, id string, viewerID string, orgID string, roles []user.Role) (RequestResponse, error)
	Cancel(ctx context.Context, id string, requesterID string, orgID string) error
}

type ApprovalService interface {
	Pending(ctx context.Context, approverID string, orgID string, page, pageSize int) (ListResponse, error)
	Decide(ctx context.Context, approverID string, orgID string, req DecisionRequest) (DecisionResponse, error)
}

// ApproverStrategy resolves the ordered approver chain of a new request, one
// user ID per step. An empty chain means the request needs no approval.
type ApproverStrategy interface {
	Approvers(ctx context.Context, r Request) ([]string, error)
}
