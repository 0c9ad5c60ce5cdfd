package approval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
)

type passThroughTx struct{}

func (passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// store backs both request repositories so a decision sees its own writes.
type store struct {
	mu        sync.Mutex
	requests  map[string]request.Request
	approvals []request.Approval
}

func newStore() *store {
	return &store{requests: make(map[string]request.Request)}
}

func (s *store) addRequest(r request.Request, approverIDs ...string) request.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = fmt.Sprintf("req-%d", len(s.requests)+1)
	s.requests[r.ID] = r
	for i, id := range approverIDs {
		a := request.NewApproval(r.ID, i+1, id, r.CreatedAt)
		a.ID = fmt.Sprintf("%s-step-%d", r.ID, i+1)
		s.approvals = append(s.approvals, a)
	}
	return r
}

type memRequestRepo struct{ s *store }

func (m memRequestRepo) Create(ctx context.Context, r request.Request) (request.Request, error) {
	return m.s.addRequest(r), nil
}

func (m memRequestRepo) GetByID(ctx context.Context, id string, orgID string) (request.Request, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.requests[id]
	if !ok || r.OrgID != orgID {
		return request.Request{}, request.ErrRequestNotFound
	}
	return r, nil
}

func (m memRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (request.Request, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.requests[id]
	if !ok {
		return request.Request{}, request.ErrRequestNotFound
	}
	return r, nil
}

func (m memRequestRepo) HasOverlap(ctx context.Context, requesterID string, orgID string, start, end time.Time) (bool, error) {
	return false, nil
}

func (m memRequestRepo) ListByRequester(ctx context.Context, requesterID string, orgID string, filter request.ListFilter) ([]request.Request, int64, error) {
	return nil, 0, nil
}

func (m memRequestRepo) ListApprovedInRange(ctx context.Context, requesterID string, orgID string, from, to time.Time) ([]request.Request, error) {
	return nil, nil
}

func (m memRequestRepo) UpdateStatus(ctx context.Context, id string, from request.Status, to request.Status, now time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.requests[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	r.UpdatedAt = now
	m.s.requests[id] = r
	return true, nil
}

func (m memRequestRepo) SetApprovedDuration(ctx context.Context, id string, minutes int, now time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r := m.s.requests[id]
	r.ApprovedDurationMinutes = &minutes
	m.s.requests[id] = r
	return nil
}

type memApprovalRepo struct{ s *store }

func (m memApprovalRepo) Create(ctx context.Context, a request.Approval) (request.Approval, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a.ID = fmt.Sprintf("%s-step-%d", a.RequestID, a.StepNo)
	m.s.approvals = append(m.s.approvals, a)
	return a, nil
}

func (m memApprovalRepo) GetPendingByRequestAndApprover(ctx context.Context, requestID string, approverID string) (request.Approval, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.approvals {
		if a.RequestID == requestID && a.ApproverID == approverID && a.Decision == request.DecisionPending {
			return a, nil
		}
	}
	return request.Approval{}, request.ErrApprovalNotPending
}

func (m memApprovalRepo) Decide(ctx context.Context, id string, decision request.Decision, comment *string, decidedAt time.Time) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, a := range m.s.approvals {
		if a.ID == id {
			if a.Decision != request.DecisionPending {
				return false, nil
			}
			m.s.approvals[i].Decision = decision
			m.s.approvals[i].Comment = comment
			m.s.approvals[i].DecidedAt = &decidedAt
			return true, nil
		}
	}
	return false, nil
}

func (m memApprovalRepo) CountPending(ctx context.Context, requestID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for _, a := range m.s.approvals {
		if a.RequestID == requestID && a.Decision == request.DecisionPending {
			n++
		}
	}
	return n, nil
}

func (m memApprovalRepo) ListByRequestIDs(ctx context.Context, requestIDs []string) (map[string][]request.Approval, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	result := make(map[string][]request.Approval)
	for _, id := range requestIDs {
		for _, a := range m.s.approvals {
			if a.RequestID == id {
				result[id] = append(result[id], a)
			}
		}
	}
	return result, nil
}

func (m memApprovalRepo) ListPendingForApprover(ctx context.Context, approverID string, orgID string, page, pageSize int) ([]request.Request, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var result []request.Request
	for _, a := range m.s.approvals {
		if a.ApproverID != approverID || a.Decision != request.DecisionPending {
			continue
		}
		r := m.s.requests[a.RequestID]
		if r.OrgID == orgID && r.Status == request.StatusPending {
			result = append(result, r)
		}
	}
	return result, int64(len(result)), nil
}

type memUserRepo struct {
	users    []user.User
	managers map[string]string
}

func (m *memUserRepo) find(id string) *user.User {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i]
		}
	}
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id string, orgID string) (user.User, error) {
	if u := m.find(id); u != nil && u.OrgID == orgID {
		return *u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUserRepo) GetActiveManager(ctx context.Context, userID string, orgID string) (*user.User, error) {
	u := m.find(m.managers[userID])
	if u == nil || u.OrgID != orgID || !u.IsActive() {
		return nil, nil
	}
	return u, nil
}

func (m *memUserRepo) FindActiveByRole(ctx context.Context, orgID string, role user.Role, excludeUserID string) (*user.User, error) {
	for i := range m.users {
		u := &m.users[i]
		if u.OrgID == orgID && u.IsActive() && u.HasRole(role) && u.ID != excludeUserID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) ListActiveByOrg(ctx context.Context, orgID string) ([]user.User, error) {
	return nil, nil
}
