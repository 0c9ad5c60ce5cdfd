package request

import "errors"

var (
	ErrRequestNotFound      = errors.New("request not found")
	ErrRequestConflict      = errors.New("request overlaps an existing pending or approved request")
	ErrRequestNotPending    = errors.New("request is no longer pending")
	ErrNotRequester         = errors.New("only the requester can cancel this request")
	ErrRequestAccessDenied  = errors.New("not allowed to view this request")
	ErrNoApproverConfigured = errors.New("no active manager or HR approver is configured for this organization")

	ErrApprovalNotPending     = errors.New("no pending approval for this approver")
	ErrApprovalAlreadyDecided = errors.New("approval has already been decided")
	ErrOrgAccessDenied        = errors.New("request belongs to another organization")
)
