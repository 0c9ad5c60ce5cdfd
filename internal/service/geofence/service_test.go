package geofence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFenceRepo struct {
	fences map[string]geofence.GeoFence
}

func newMemFenceRepo() *memFenceRepo {
	return &memFenceRepo{fences: make(map[string]geofence.GeoFence)}
}

func (r *memFenceRepo) Create(ctx context.Context, f geofence.GeoFence) (geofence.GeoFence, error) {
	f.ID = fmt.Sprintf("fence-%d", len(r.fences)+1)
	r.fences[f.ID] = f
	return f, nil
}

func (r *memFenceRepo) GetByID(ctx context.Context, id string, orgID string) (geofence.GeoFence, error) {
	f, ok := r.fences[id]
	if !ok || f.OrgID != orgID {
		return geofence.GeoFence{}, geofence.ErrGeoFenceNotFound
	}
	return f, nil
}

func (r *memFenceRepo) ListByOrg(ctx context.Context, orgID string) ([]geofence.GeoFence, error) {
	var result []geofence.GeoFence
	for _, f := range r.fences {
		if f.OrgID == orgID {
			result = append(result, f)
		}
	}
	return result, nil
}

func (r *memFenceRepo) ListActiveByOrg(ctx context.Context, orgID string) ([]geofence.GeoFence, error) {
	all, _ := r.ListByOrg(ctx, orgID)
	return geofenceFilterActive(all), nil
}

func (r *memFenceRepo) Update(ctx context.Context, f geofence.GeoFence) error {
	if _, ok := r.fences[f.ID]; !ok {
		return geofence.ErrGeoFenceNotFound
	}
	r.fences[f.ID] = f
	return nil
}

func (r *memFenceRepo) Delete(ctx context.Context, id string, orgID string) error {
	f, ok := r.fences[id]
	if !ok || f.OrgID != orgID {
		return geofence.ErrGeoFenceNotFound
	}
	delete(r.fences, id)
	return nil
}

func geofenceFilterActive(fences []geofence.GeoFence) []geofence.GeoFence {
	var result []geofence.GeoFence
	for _, f := range fences {
		if f.Active {
			result = append(result, f)
		}
	}
	return result
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
}

func TestGeoFenceService_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemFenceRepo()
	svc := NewGeoFenceService(repo, fixedNow)

	created, err := svc.Create(ctx, "org-1", geofence.CreateGeoFenceRequest{
		Name:         "HQ",
		Latitude:     -6.2,
		Longitude:    106.8,
		RadiusMeters: 150,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, "2026-01-05T08:00:00Z", created.CreatedAt)

	inactive := false
	radius := 300
	updated, err := svc.Update(ctx, "org-1", geofence.UpdateGeoFenceRequest{
		ID:           created.ID,
		RadiusMeters: &radius,
		Active:       &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 300, updated.RadiusMeters)
	assert.False(t, updated.Active)
	assert.Equal(t, "HQ", updated.Name)

	_, err = svc.Update(ctx, "org-2", geofence.UpdateGeoFenceRequest{ID: created.ID, RadiusMeters: &radius})
	assert.ErrorIs(t, err, geofence.ErrGeoFenceNotFound)

	require.NoError(t, svc.Delete(ctx, "org-1", created.ID))
	list, err := svc.List(ctx, "org-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGeoFenceService_CreateValidation(t *testing.T) {
	svc := NewGeoFenceService(newMemFenceRepo(), fixedNow)

	_, err := svc.Create(context.Background(), "org-1", geofence.CreateGeoFenceRequest{
		Latitude:     120,
		Longitude:    106.8,
		RadiusMeters: 0,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "lat")
	assert.Contains(t, fields, "radius_m")
}
