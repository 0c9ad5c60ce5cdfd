package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 6, 1, 16, 0, 0, 0, time.UTC) // 00:00 at UTC+8

func newPunch(orgID, userID string, t punch.Type, at time.Time) punch.Punch {
	return punch.Punch{
		OrgID:        orgID,
		UserID:       userID,
		Type:         t,
		PunchedAt:    at,
		VerifyMethod: punch.VerifyNone,
		VerifyStatus: punch.VerifySkipped,
		Status:       punch.StatusNormal,
		CreatedAt:    at,
	}
}

func newRequest(orgID, userID string, status request.Status, start, end time.Time) request.Request {
	minutes := request.SpanMinutes(start, end)
	return request.Request{
		OrgID:           orgID,
		RequesterID:     userID,
		Type:            request.TypeOvertime,
		Title:           "Overtime",
		StartAt:         start,
		EndAt:           end,
		DurationMinutes: &minutes,
		Status:          status,
		CreatedAt:       start,
		UpdatedAt:       start,
	}
}

func TestOrganizationRepository_DefaultOffset(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewOrganizationRepository(s.DB, 480)

	explicit := -300
	withOffset := s.createOrganization(t, &explicit)
	withoutOffset := s.createOrganization(t, nil)

	org, err := repo.GetByID(ctx, withOffset)
	require.NoError(t, err)
	assert.Equal(t, -300, org.UTCOffsetMinutes)

	org, err = repo.GetByID(ctx, withoutOffset)
	require.NoError(t, err)
	assert.Equal(t, 480, org.UTCOffsetMinutes)
}

func TestPunchRepository_CreateIfAbsent(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPunchRepository(s.DB)

	orgID := s.createOrganization(t, nil)
	userID := s.createUser(t, orgID, "Dewi", "ACTIVE", "EMPLOYEE")
	dayEnd := day.Add(24 * time.Hour)

	first, err := repo.CreateIfAbsent(ctx, newPunch(orgID, userID, punch.TypeIn, day.Add(time.Hour)), day, dayEnd)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = repo.CreateIfAbsent(ctx, newPunch(orgID, userID, punch.TypeIn, day.Add(2*time.Hour)), day, dayEnd)
	assert.ErrorIs(t, err, punch.ErrAlreadyPunched)

	_, err = repo.CreateIfAbsent(ctx, newPunch(orgID, userID, punch.TypeOut, day.Add(9*time.Hour)), day, dayEnd)
	require.NoError(t, err)

	_, err = repo.CreateIfAbsent(ctx, newPunch(orgID, userID, punch.TypeIn, dayEnd.Add(time.Hour)), dayEnd, dayEnd.Add(24*time.Hour))
	require.NoError(t, err, "next local day is a fresh slot")

	punches, err := repo.ListByUserInRange(ctx, userID, orgID, day, dayEnd)
	require.NoError(t, err)
	require.Len(t, punches, 2)
	assert.Equal(t, punch.TypeIn, punches[0].Type)
	assert.Equal(t, punch.TypeOut, punches[1].Type)
}

func TestAnomalyRepository_CreateIfAbsent(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAnomalyRepository(s.DB)

	orgID := s.createOrganization(t, nil)
	userID := s.createUser(t, orgID, "Dewi", "ACTIVE", "EMPLOYEE")

	a := anomaly.New(orgID, userID, day, anomaly.TypeMissingOut, nil, day)
	created, err := repo.CreateIfAbsent(ctx, a)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, a)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = repo.Create(ctx, anomaly.New(orgID, userID, day, anomaly.TypeLate, nil, day))
	require.NoError(t, err)

	counts, err := repo.CountInRange(ctx, userID, orgID, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 1, counts.Late)
}

func TestRequestRepository_OverlapAndRange(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewRequestRepository(s.DB)

	orgID := s.createOrganization(t, nil)
	userID := s.createUser(t, orgID, "Dewi", "ACTIVE", "EMPLOYEE")

	start := day.Add(10 * time.Hour)
	end := start.Add(2 * time.Hour)
	_, err := repo.Create(ctx, newRequest(orgID, userID, request.StatusApproved, start, end))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newRequest(orgID, userID, request.StatusRejected, end.Add(time.Hour), end.Add(2*time.Hour)))
	require.NoError(t, err)

	overlap, err := repo.HasOverlap(ctx, userID, orgID, end, end.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, overlap, "touching endpoints overlap")

	overlap, err = repo.HasOverlap(ctx, userID, orgID, end.Add(time.Hour), end.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, overlap, "rejected requests do not block")

	approved, err := repo.ListApprovedInRange(ctx, userID, orgID, end, end.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, approved, 1, "end_at equal to window start is included")

	approved, err = repo.ListApprovedInRange(ctx, userID, orgID, day, start)
	require.NoError(t, err)
	assert.Empty(t, approved, "start_at equal to window end is excluded")
}

func TestApprovalRepository_Decide(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	requests := postgresql.NewRequestRepository(s.DB)
	approvals := postgresql.NewApprovalRepository(s.DB)

	orgID := s.createOrganization(t, nil)
	requesterID := s.createUser(t, orgID, "Dewi", "ACTIVE", "EMPLOYEE")
	approverID := s.createUser(t, orgID, "Rina", "ACTIVE", "MANAGER")

	r, err := requests.Create(ctx, newRequest(orgID, requesterID, request.StatusPending, day, day.Add(time.Hour)))
	require.NoError(t, err)
	a, err := approvals.Create(ctx, request.NewApproval(r.ID, 1, approverID, day))
	require.NoError(t, err)

	pending, total, err := approvals.ListPendingForApprover(ctx, approverID, orgID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, r.ID, pending[0].ID)

	ok, err := approvals.Decide(ctx, a.ID, request.DecisionApproved, nil, day)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = approvals.Decide(ctx, a.ID, request.DecisionRejected, nil, day)
	require.NoError(t, err)
	assert.False(t, ok, "a decided step cannot be decided again")

	n, err := approvals.CountPending(ctx, r.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = approvals.GetPendingByRequestAndApprover(ctx, r.ID, approverID)
	assert.ErrorIs(t, err, request.ErrApprovalNotPending)
}

func TestUserRepository_FindActiveByRole(t *testing.T) {
	s := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(s.DB)

	orgID := s.createOrganization(t, nil)
	s.createUser(t, orgID, "Former HR", "INACTIVE", "HR")
	first := s.createUser(t, orgID, "Ayu", "ACTIVE", "HR")
	second := s.createUser(t, orgID, "Budi", "ACTIVE", "HR", "MANAGER")

	u, err := repo.FindActiveByRole(ctx, orgID, user.RoleHR, "")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, first, u.ID)

	u, err = repo.FindActiveByRole(ctx, orgID, user.RoleHR, first)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, second, u.ID)

	u, err = repo.FindActiveByRole(ctx, orgID, user.RoleAdmin, "")
	require.NoError(t, err)
	assert.Nil(t, u)

	active, err := repo.ListActiveByOrg(ctx, orgID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
