package punch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
)

type passThroughTx struct{}

func (passThroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memPunchRepo struct {
	mu      sync.Mutex
	punches []punch.Punch
}

func (r *memPunchRepo) CreateIfAbsent(ctx context.Context, p punch.Punch, dayStart, dayEnd time.Time) (punch.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.punches {
		if existing.UserID == p.UserID && existing.Type == p.Type &&
			!existing.PunchedAt.Before(dayStart) && existing.PunchedAt.Before(dayEnd) {
			return punch.Punch{}, punch.ErrAlreadyPunched
		}
	}
	p.ID = fmt.Sprintf("punch-%d", len(r.punches)+1)
	r.punches = append(r.punches, p)
	return p, nil
}

func (r *memPunchRepo) ListByUserInRange(ctx context.Context, userID string, orgID string, from, to time.Time) ([]punch.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []punch.Punch
	for _, p := range r.punches {
		if p.UserID == userID && p.OrgID == orgID && !p.PunchedAt.Before(from) && p.PunchedAt.Before(to) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *memPunchRepo) ListByOrgInRange(ctx context.Context, orgID string, from, to time.Time) ([]punch.Punch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []punch.Punch
	for _, p := range r.punches {
		if p.OrgID == orgID && !p.PunchedAt.Before(from) && p.PunchedAt.Before(to) {
			result = append(result, p)
		}
	}
	return result, nil
}

type memAnomalyRepo struct {
	mu        sync.Mutex
	anomalies []anomaly.Anomaly
}

func (r *memAnomalyRepo) Create(ctx context.Context, a anomaly.Anomaly) (anomaly.Anomaly, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = fmt.Sprintf("anomaly-%d", len(r.anomalies)+1)
	r.anomalies = append(r.anomalies, a)
	return a, nil
}

func (r *memAnomalyRepo) CreateIfAbsent(ctx context.Context, a anomaly.Anomaly) (bool, error) {
	r.mu.Lock()
	for _, existing := range r.anomalies {
		if existing.UserID == a.UserID && existing.Type == a.Type && existing.Date.Equal(a.Date) {
			r.mu.Unlock()
			return false, nil
		}
	}
	r.mu.Unlock()
	_, err := r.Create(ctx, a)
	return err == nil, err
}

func (r *memAnomalyRepo) CountInRange(ctx context.Context, userID string, orgID string, from, to time.Time) (anomaly.Counts, error) {
	return anomaly.Counts{}, nil
}

func (r *memAnomalyRepo) types() []anomaly.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []anomaly.Type
	for _, a := range r.anomalies {
		result = append(result, a.Type)
	}
	return result
}

type memFenceRepo struct {
	fences []geofence.GeoFence
}

func (r *memFenceRepo) Create(ctx context.Context, f geofence.GeoFence) (geofence.GeoFence, error) {
	return f, nil
}
func (r *memFenceRepo) GetByID(ctx context.Context, id string, orgID string) (geofence.GeoFence, error) {
	return geofence.GeoFence{}, geofence.ErrGeoFenceNotFound
}
func (r *memFenceRepo) ListByOrg(ctx context.Context, orgID string) ([]geofence.GeoFence, error) {
	return r.fences, nil
}
func (r *memFenceRepo) ListActiveByOrg(ctx context.Context, orgID string) ([]geofence.GeoFence, error) {
	return r.fences, nil
}
func (r *memFenceRepo) Update(ctx context.Context, f geofence.GeoFence) error           { return nil }
func (r *memFenceRepo) Delete(ctx context.Context, id string, orgID string) error { return nil }

type memScheduleRepo struct {
	schedules map[string]schedule.WorkSchedule
}

func (r *memScheduleRepo) Create(ctx context.Context, s schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	return s, nil
}
func (r *memScheduleRepo) GetByID(ctx context.Context, id string, orgID string) (schedule.WorkSchedule, error) {
	s, ok := r.schedules[id]
	if !ok || s.OrgID != orgID {
		return schedule.WorkSchedule{}, schedule.ErrScheduleNotFound
	}
	return s, nil
}
func (r *memScheduleRepo) ListByOrg(ctx context.Context, orgID string) ([]schedule.WorkSchedule, error) {
	return nil, nil
}
func (r *memScheduleRepo) Update(ctx context.Context, s schedule.WorkSchedule) error   { return nil }
func (r *memScheduleRepo) Delete(ctx context.Context, id string, orgID string) error { return nil }

type memOrgRepo struct {
	org organization.Organization
}

func (r *memOrgRepo) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	if id != r.org.ID {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	return r.org, nil
}
func (r *memOrgRepo) ListIDs(ctx context.Context) ([]string, error) { return []string{r.org.ID}, nil }
func (r *memOrgRepo) SetDefaultSchedule(ctx context.Context, id string, scheduleID *string) error {
	r.org.DefaultScheduleID = scheduleID
	return nil
}
