package punch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID  = "org-1"
	testUserID = "user-1"
)

type fixture struct {
	punches   *memPunchRepo
	anomalies *memAnomalyRepo
	fences    *memFenceRepo
	schedules *memScheduleRepo
	orgs      *memOrgRepo
	now       time.Time
}

func newFixture(withSchedule bool) *fixture {
	f := &fixture{
		punches:   &memPunchRepo{},
		anomalies: &memAnomalyRepo{},
		fences: &memFenceRepo{fences: []geofence.GeoFence{
			{ID: "fence-office", OrgID: testOrgID, Latitude: -6.2, Longitude: 106.8, RadiusMeters: 100, Active: true},
		}},
		schedules: &memScheduleRepo{schedules: map[string]schedule.WorkSchedule{}},
		orgs:      &memOrgRepo{org: organization.Organization{ID: testOrgID, UTCOffsetMinutes: 480}},
		// 09:30 local at UTC+8
		now: time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC),
	}
	if withSchedule {
		s := *nineToSix()
		s.OrgID = testOrgID
		f.schedules.schedules[s.ID] = s
		f.orgs.org.DefaultScheduleID = &s.ID
	}
	return f
}

func (f *fixture) service() punch.PunchService {
	return NewPunchService(passThroughTx{}, f.punches, f.anomalies, f.fences, f.schedules, f.orgs, func() time.Time { return f.now })
}

func coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func TestPunch_LateInsideFence(t *testing.T) {
	f := newFixture(true)
	svc := f.service()

	lat, lng := coords(-6.2, 106.8)
	evidence := "https://cdn.example/selfie.jpg"
	resp, err := svc.Punch(context.Background(), testUserID, testOrgID, punch.CreatePunchRequest{
		PunchType:   "IN",
		Latitude:    lat,
		Longitude:   lng,
		EvidenceURL: &evidence,
	})
	require.NoError(t, err)

	assert.Equal(t, punch.StatusLate, resp.Status)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 30, *resp.LateMinutes)
	require.NotNil(t, resp.InFence)
	assert.True(t, *resp.InFence)
	assert.Equal(t, punch.VerifyPass, resp.VerifyStatus)
	require.NotNil(t, resp.GeoFenceID)
	assert.Equal(t, "fence-office", *resp.GeoFenceID)
	assert.Equal(t, []anomaly.Type{anomaly.TypeLate}, f.anomalies.types())
	require.NotNil(t, f.punches.punches[0].ScheduleID)
}

func TestPunch_LocationDeniedWithoutSchedule(t *testing.T) {
	f := newFixture(false)
	svc := f.service()

	resp, err := svc.Punch(context.Background(), testUserID, testOrgID, punch.CreatePunchRequest{
		PunchType:    "IN",
		VerifyMethod: "NONE",
	})
	require.NoError(t, err)

	assert.Equal(t, punch.StatusNoSchedule, resp.Status)
	assert.Nil(t, resp.InFence)
	assert.Nil(t, resp.ScheduleInfo)
	assert.Equal(t, punch.VerifySkipped, resp.VerifyStatus)
	assert.Equal(t, []anomaly.Type{anomaly.TypeLocationDenied}, f.anomalies.types())
}

func TestPunch_OutOfFence(t *testing.T) {
	f := newFixture(true)
	f.now = time.Date(2026, 3, 2, 0, 55, 0, 0, time.UTC) // 08:55 local
	svc := f.service()

	lat, lng := coords(-6.3, 106.8)
	resp, err := svc.Punch(context.Background(), testUserID, testOrgID, punch.CreatePunchRequest{
		PunchType: "IN",
		Latitude:  lat,
		Longitude: lng,
	})
	require.NoError(t, err)

	assert.Equal(t, punch.StatusNormal, resp.Status)
	require.NotNil(t, resp.InFence)
	assert.False(t, *resp.InFence)
	require.NotNil(t, resp.DistanceToFenceMeters)
	assert.Greater(t, *resp.DistanceToFenceMeters, 10000)
	assert.Equal(t, []anomaly.Type{anomaly.TypeOutOfFence}, f.anomalies.types())
}

func TestPunch_DuplicateSameLocalDay(t *testing.T) {
	f := newFixture(true)
	svc := f.service()
	ctx := context.Background()

	_, err := svc.Punch(ctx, testUserID, testOrgID, punch.CreatePunchRequest{PunchType: "IN"})
	require.NoError(t, err)

	// 23:59 local on the same day
	f.now = time.Date(2026, 3, 2, 15, 59, 0, 0, time.UTC)
	_, err = svc.Punch(ctx, testUserID, testOrgID, punch.CreatePunchRequest{PunchType: "IN"})
	assert.ErrorIs(t, err, punch.ErrAlreadyPunched)

	// 00:00 local on the next day
	f.now = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	_, err = svc.Punch(ctx, testUserID, testOrgID, punch.CreatePunchRequest{PunchType: "IN"})
	assert.NoError(t, err)
}

func TestPunch_ConcurrentDuplicatesAcceptOne(t *testing.T) {
	f := newFixture(true)
	svc := f.service()

	var ok, conflict int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Punch(context.Background(), testUserID, testOrgID, punch.CreatePunchRequest{PunchType: "OUT"})
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case assert.ErrorIs(t, err, punch.ErrAlreadyPunched):
				atomic.AddInt32(&conflict, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, ok)
	assert.EqualValues(t, 7, conflict)
}

func TestPunch_InvalidInput(t *testing.T) {
	f := newFixture(true)
	svc := f.service()

	lat := 91.0
	_, err := svc.Punch(context.Background(), testUserID, testOrgID, punch.CreatePunchRequest{
		PunchType: "BREAK",
		Latitude:  &lat,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "punch_type")
	assert.Contains(t, fields, "lat")
	assert.Empty(t, f.punches.punches)
}

func TestToday_LatestPerType(t *testing.T) {
	f := newFixture(true)
	svc := f.service()
	ctx := context.Background()

	_, err := svc.Punch(ctx, testUserID, testOrgID, punch.CreatePunchRequest{PunchType: "IN"})
	require.NoError(t, err)
	f.now = f.now.Add(9 * time.Hour)
	_, err = svc.Punch(ctx, testUserID, testOrgID, punch.CreatePunchRequest{PunchType: "OUT"})
	require.NoError(t, err)

	today, err := svc.Today(ctx, testUserID, testOrgID)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", today.Date)
	require.NotNil(t, today.PunchIn)
	require.NotNil(t, today.PunchOut)
	assert.Equal(t, "09:30", today.PunchIn.LocalTime)
	assert.Equal(t, "18:30", today.PunchOut.LocalTime)
}

func TestHistory_GroupsByLocalDateDescending(t *testing.T) {
	f := newFixture(true)
	svc := f.service()
	ctx := context.Background()

	for day := 0; day < 3; day++ {
		f.now = time.Date(2026, 3, 2+day, 1, 0, 0, 0, time.UTC)
		_, err := svc.Punch(ctx, testUserID, testOrgID, punch.CreatePunchRequest{PunchType: "IN"})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, testUserID, testOrgID, punch.HistoryFilter{
		From:     "2026-03-01",
		To:       "2026-03-04",
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 3, history.Total)
	assert.Equal(t, 2, history.TotalPages)
	require.Len(t, history.Items, 2)
	assert.Equal(t, "2026-03-04", history.Items[0].Date)
	assert.Equal(t, "2026-03-03", history.Items[1].Date)
	assert.Nil(t, history.Items[0].PunchOut)

	page2, err := svc.History(ctx, testUserID, testOrgID, punch.HistoryFilter{
		From: "2026-03-01", To: "2026-03-04", Page: 2, PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, page2.Items, 1)
	assert.Equal(t, "2026-03-02", page2.Items[0].Date)
}

func TestCurrentSchedule(t *testing.T) {
	svc := newFixture(true).service()
	resp, err := svc.CurrentSchedule(context.Background(), testOrgID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.True(t, resp.IsDefault)

	none, err := newFixture(false).service().CurrentSchedule(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Nil(t, none)
}
