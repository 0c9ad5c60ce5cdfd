package approval

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decidedAt = time.Date(2026, 5, 4, 3, 0, 0, 0, time.UTC)

func newTestService(s *store) request.ApprovalService {
	return NewApprovalService(passThroughTx{}, memRequestRepo{s}, memApprovalRepo{s}, func() time.Time { return decidedAt })
}

func pendingRequest(orgID string) request.Request {
	created := decidedAt.Add(-24 * time.Hour)
	duration := 120
	return request.Request{
		OrgID:           orgID,
		RequesterID:     "emp",
		Type:            request.TypeOvertime,
		Title:           "Overtime-2h",
		StartAt:         created,
		EndAt:           created.Add(2 * time.Hour),
		DurationMinutes: &duration,
		Status:          request.StatusPending,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func ptr[T any](v T) *T { return &v }

func TestDecide_ApproveSingleStepWithOverride(t *testing.T) {
	s := newStore()
	r := s.addRequest(pendingRequest("org-1"), "mgr")
	svc := newTestService(s)

	resp, err := svc.Decide(context.Background(), "mgr", "org-1", request.DecisionRequest{
		RequestID:               r.ID,
		Decision:                "APPROVED",
		ApprovedDurationMinutes: ptr(90),
	})
	require.NoError(t, err)

	assert.Equal(t, request.StatusApproved, resp.RequestStatus)
	assert.Equal(t, 0, resp.RemainingSteps)
	require.NotNil(t, resp.ApprovedDurationMinutes)
	assert.Equal(t, 90, *resp.ApprovedDurationMinutes)
	assert.Equal(t, 90, *s.requests[r.ID].ApprovedDurationMinutes)
	assert.Equal(t, request.StatusApproved, s.requests[r.ID].Status)
}

func TestDecide_MultiStepNeedsEveryApproval(t *testing.T) {
	s := newStore()
	r := s.addRequest(pendingRequest("org-1"), "mgr", "hr")
	svc := newTestService(s)
	ctx := context.Background()

	resp, err := svc.Decide(ctx, "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"})
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, resp.RequestStatus)
	assert.Equal(t, 1, resp.RemainingSteps)
	assert.Nil(t, s.requests[r.ID].ApprovedDurationMinutes)

	resp, err = svc.Decide(ctx, "hr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"})
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, resp.RequestStatus)
}

func TestDecide_RejectRequiresComment(t *testing.T) {
	s := newStore()
	r := s.addRequest(pendingRequest("org-1"), "mgr")
	svc := newTestService(s)
	ctx := context.Background()

	_, err := svc.Decide(ctx, "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "REJECTED"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "comment")
	assert.Equal(t, request.StatusPending, s.requests[r.ID].Status)

	resp, err := svc.Decide(ctx, "mgr", "org-1", request.DecisionRequest{
		RequestID: r.ID,
		Decision:  "REJECTED",
		Comment:   ptr("no budget"),
	})
	require.NoError(t, err)
	assert.Equal(t, request.StatusRejected, resp.RequestStatus)
}

func TestDecide_RejectOnFirstStepClosesRequest(t *testing.T) {
	s := newStore()
	r := s.addRequest(pendingRequest("org-1"), "mgr", "hr")
	svc := newTestService(s)
	ctx := context.Background()

	_, err := svc.Decide(ctx, "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "REJECTED", Comment: ptr("no")})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, "hr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"})
	assert.ErrorIs(t, err, request.ErrRequestNotPending)
}

func TestDecide_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("not the approver", func(t *testing.T) {
		s := newStore()
		r := s.addRequest(pendingRequest("org-1"), "mgr")
		_, err := newTestService(s).Decide(ctx, "someone", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"})
		assert.ErrorIs(t, err, request.ErrApprovalNotPending)
	})

	t.Run("other organization", func(t *testing.T) {
		s := newStore()
		r := s.addRequest(pendingRequest("org-2"), "mgr")
		_, err := newTestService(s).Decide(ctx, "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"})
		assert.ErrorIs(t, err, request.ErrOrgAccessDenied)
		assert.Equal(t, request.DecisionPending, s.approvals[0].Decision)
	})

	t.Run("canceled request", func(t *testing.T) {
		s := newStore()
		pr := pendingRequest("org-1")
		pr.Status = request.StatusCanceled
		r := s.addRequest(pr, "mgr")
		_, err := newTestService(s).Decide(ctx, "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"})
		assert.ErrorIs(t, err, request.ErrRequestNotPending)
	})

	t.Run("decided twice", func(t *testing.T) {
		s := newStore()
		r := s.addRequest(pendingRequest("org-1"), "mgr", "hr")
		svc := newTestService(s)
		_, err := svc.Decide(ctx, "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"})
		require.NoError(t, err)
		_, err = svc.Decide(ctx, "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"})
		assert.ErrorIs(t, err, request.ErrApprovalNotPending)
	})

	t.Run("duration with rejection", func(t *testing.T) {
		s := newStore()
		r := s.addRequest(pendingRequest("org-1"), "mgr")
		_, err := newTestService(s).Decide(ctx, "mgr", "org-1", request.DecisionRequest{
			RequestID: r.ID, Decision: "REJECTED", Comment: ptr("x"), ApprovedDurationMinutes: ptr(30),
		})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

func TestDecide_TransferredLeavesRequestPending(t *testing.T) {
	s := newStore()
	r := s.addRequest(pendingRequest("org-1"), "mgr")
	svc := newTestService(s)

	resp, err := svc.Decide(context.Background(), "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "TRANSFERRED"})
	require.NoError(t, err)
	assert.Equal(t, request.DecisionTransferred, resp.Decision)
	assert.Equal(t, request.StatusPending, resp.RequestStatus)
	assert.Equal(t, request.DecisionTransferred, s.approvals[0].Decision)
}

func TestDecide_ConcurrentSameApproverDecidesOnce(t *testing.T) {
	s := newStore()
	r := s.addRequest(pendingRequest("org-1"), "mgr")
	svc := newTestService(s)

	// The pass-through transactor has no row locks, so serialise the
	// closures the way the database would.
	var mu sync.Mutex
	var wg sync.WaitGroup
	var wins int
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			if _, err := svc.Decide(context.Background(), "mgr", "org-1", request.DecisionRequest{RequestID: r.ID, Decision: "APPROVED"}); err == nil {
				wins++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestPending_ListsOnlyOpenRequestsOfOrg(t *testing.T) {
	s := newStore()
	open := s.addRequest(pendingRequest("org-1"), "mgr")
	canceled := pendingRequest("org-1")
	canceled.Status = request.StatusCanceled
	s.addRequest(canceled, "mgr")
	s.addRequest(pendingRequest("org-2"), "mgr")

	resp, err := newTestService(s).Pending(context.Background(), "mgr", "org-1", 0, 0)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, open.ID, resp.Items[0].ID)
	assert.Equal(t, 20, resp.PageSize)
	require.Len(t, resp.Items[0].Approvals, 1)
	assert.Equal(t, "mgr", resp.Items[0].Approvals[0].ApproverID)
}
