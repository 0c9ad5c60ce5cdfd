package request

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type CreateRequest struct {
	RequestType   string  `json:"request_type"`
	StartAt       string  `json:"start_at"`
	EndAt         string  `json:"end_at"`
	Reason        *string `json:"reason,omitempty"`
	LeaveCategory *string `json:"leave_category,omitempty"`
	Destination   *string `json:"destination,omitempty"`

	startAt time.Time
	endAt   time.Time
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.RequestType, TypeValues) {
		errs.Add("request_type", "request_type must be one of LEAVE, TRIP, FIX_PUNCH, OVERTIME")
	}

	start, okStart := validator.IsValidDateTime(r.StartAt)
	if !okStart {
		errs.Add("start_at", "start_at must be an ISO8601 timestamp")
	}
	end, okEnd := validator.IsValidDateTime(r.EndAt)
	if !okEnd {
		errs.Add("end_at", "end_at must be an ISO8601 timestamp")
	}
	if okStart && okEnd && !start.Before(end) {
		errs.Add("end_at", "end_at must be after start_at")
	}

	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	if r.LeaveCategory != nil && len(*r.LeaveCategory) > 50 {
		errs.Add("leave_category", "leave_category must not exceed 50 characters")
	}
	if r.Destination != nil && len(*r.Destination) > 200 {
		errs.Add("destination", "destination must not exceed 200 characters")
	}

	if len(errs) > 0 {
		return errs
	}

	r.startAt, r.endAt = start, end
	return nil
}

// Interval returns the parsed start and end. Only valid after Validate.
func (r *CreateRequest) Interval() (time.Time, time.Time) {
	return r.startAt, r.endAt
}

type DecisionRequest struct {
	RequestID               string  `json:"-"`
	Decision                string  `json:"decision"`
	Comment                 *string `json:"comment,omitempty"`
	ApprovedDurationMinutes *int    `json:"approved_duration_minutes,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs.Add("request_id", "request_id is required")
	}

	switch Decision(r.Decision) {
	case DecisionApproved, DecisionTransferred:
	case DecisionRejected:
		if r.Comment == nil || validator.IsEmpty(*r.Comment) {
			errs.Add("comment", "comment is required when rejecting")
		}
	default:
		errs.Add("decision", "decision must be APPROVED, REJECTED or TRANSFERRED")
	}

	if r.ApprovedDurationMinutes != nil {
		if Decision(r.Decision) != DecisionApproved {
			errs.Add("approved_duration_minutes", "approved_duration_minutes is only allowed when approving")
		} else if *r.ApprovedDurationMinutes < 0 || *r.ApprovedDurationMinutes > 31*24*60 {
			errs.Add("approved_duration_minutes", "approved_duration_minutes is out of range")
		}
	}
	if r.Comment != nil && len(*r.Comment) > 1000 {
		errs.Add("comment", "comment must not exceed 1000 characters")
	}

	return errs.Err()
}

type ListFilter struct {
	Page     int
	PageSize int
	Status   *string
	Type     *string
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{
		string(StatusPending), string(StatusApproved), string(StatusRejected), string(StatusCanceled),
	}) {
		errs.Add("status", "invalid status")
	}
	if f.Type != nil && !validator.IsInSlice(*f.Type, TypeValues) {
		errs.Add("type", "invalid request type")
	}
	if f.PageSize > 100 {
		errs.Add("page_size", "page_size must not exceed 100")
	}

	return errs.Err()
}

func (f *ListFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
}

type ApprovalResponse struct {
	StepNo       int      `json:"step_no"`
	ApproverID   string   `json:"approver_id"`
	ApproverName *string  `json:"approver_name,omitempty"`
	Decision     Decision `json:"decision"`
	Comment      *string  `json:"comment,omitempty"`
	DecidedAt    *string  `json:"decided_at,omitempty"`
}

type RequestResponse struct {
	ID                      string             `json:"id"`
	RequestType             Type               `json:"request_type"`
	Title                   string             `json:"title"`
	Status                  Status             `json:"status"`
	RequesterID             string             `json:"requester_id"`
	RequesterName           *string            `json:"requester_name,omitempty"`
	StartAt                 string             `json:"start_at"`
	EndAt                   string             `json:"end_at"`
	DurationMinutes         *int               `json:"duration_minutes"`
	ApprovedDurationMinutes *int               `json:"approved_duration_minutes"`
	Reason                  *string            `json:"reason,omitempty"`
	LeaveCategory           *string            `json:"leave_category,omitempty"`
	Destination             *string            `json:"destination,omitempty"`
	CreatedAt               string             `json:"created_at"`
	Approvals               []ApprovalResponse `json:"approvals"`
}

func NewRequestResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:                      r.ID,
		RequestType:             r.Type,
		Title:                   r.Title,
		Status:                  r.Status,
		RequesterID:             r.RequesterID,
		RequesterName:           r.RequesterName,
		StartAt:                 r.StartAt.UTC().Format(time.RFC3339),
		EndAt:                   r.EndAt.UTC().Format(time.RFC3339),
		DurationMinutes:         r.DurationMinutes,
		ApprovedDurationMinutes: r.ApprovedDurationMinutes,
		Reason:                  r.Reason,
		LeaveCategory:           r.LeaveCategory,
		Destination:             r.Destination,
		CreatedAt:               r.CreatedAt.UTC().Format(time.RFC3339),
		Approvals:               make([]ApprovalResponse, 0, len(r.Approvals)),
	}
	if resp.DurationMinutes == nil {
		d := SpanMinutes(r.StartAt, r.EndAt)
		resp.DurationMinutes = &d
	}
	for _, a := range r.Approvals {
		ar := ApprovalResponse{
			StepNo:       a.StepNo,
			ApproverID:   a.ApproverID,
			ApproverName: a.ApproverName,
			Decision:     a.Decision,
			Comment:      a.Comment,
		}
		if a.DecidedAt != nil {
			s := a.DecidedAt.UTC().Format(time.RFC3339)
			ar.DecidedAt = &s
		}
		resp.Approvals = append(resp.Approvals, ar)
	}
	return resp
}

type ListResponse struct {
	Items      []RequestResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type DecisionResponse struct {
	RequestID               string   `json:"request_id"`
	Decision                Decision `json:"decision"`
	RequestStatus           Status   `json:"request_status"`
	ApprovedDurationMinutes *int     `json:"approved_duration_minutes"`
	RemainingSteps          int      `json:"remaining_steps"`
}

// NewListResponse expects each request's Approvals to be loaded already.
func NewListResponse(requests []Request, total int64, page, pageSize int) ListResponse {
	items := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, NewRequestResponse(r))
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return ListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
