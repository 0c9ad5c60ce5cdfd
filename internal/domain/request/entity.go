package request

import (
	"math"
	"time"
)

type Type string

const (
	TypeLeave    Type = "LEAVE"
	TypeTrip     Type = "TRIP"
	TypeFixPunch Type = "FIX_PUNCH"
	TypeOvertime Type = "OVERTIME"
)

var TypeValues = []string{
	string(TypeLeave),
	string(TypeTrip),
	string(TypeFixPunch),
	string(TypeOvertime),
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

type Decision string

const (
	DecisionPending     Decision = "PENDING"
	DecisionApproved    Decision = "APPROVED"
	DecisionRejected    Decision = "REJECTED"
	DecisionTransferred Decision = "TRANSFERRED"
)

type Request struct {
	ID                      string
	OrgID                   string
	RequesterID             string
	Type                    Type
	Title                   string
	Reason                  *string
	LeaveCategory           *string
	Destination             *string
	StartAt                 time.Time
	EndAt                   time.Time
	DurationMinutes         *int
	ApprovedDurationMinutes *int
	Status                  Status
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// Join
	RequesterName *string
	Approvals     []Approval
}

// Approval is one step of a request's approval chain; (RequestID, StepNo) is unique.
type Approval struct {
	ID         string
	RequestID  string
	StepNo     int
	ApproverID string
	Decision   Decision
	Comment    *string
	DecidedAt  *time.Time
	CreatedAt  time.Time

	// Join
	ApproverName *string
}

// SpanMinutes rounds end-start to whole minutes.
func SpanMinutes(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

// NewRequest builds a PENDING request stamped with now. DurationMinutes is
// derived from the interval.
func NewRequest(orgID, requesterID string, req CreateRequest, title string, now time.Time) Request {
	start, end := req.Interval()
	duration := SpanMinutes(start, end)
	return Request{
		OrgID:           orgID,
		RequesterID:     requesterID,
		Type:            Type(req.RequestType),
		Title:           title,
		Reason:          req.Reason,
		LeaveCategory:   req.LeaveCategory,
		Destination:     req.Destination,
		StartAt:         start,
		EndAt:           end,
		DurationMinutes: &duration,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewApproval builds a PENDING step stamped with now.
func NewApproval(requestID string, stepNo int, approverID string, now time.Time) Approval {
	return Approval{
		RequestID:  requestID,
		StepNo:     stepNo,
		ApproverID: approverID,
		Decision:   DecisionPending,
		CreatedAt:  now,
	}
}
