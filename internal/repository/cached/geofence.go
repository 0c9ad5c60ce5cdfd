package cached

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/patrickmn/go-cache"
)

// geoFenceRepository caches the active fence list per organization, which
// every punch reads.
type geoFenceRepository struct {
	next  geofence.GeoFenceRepository
	store *cache.Cache
}

func NewGeoFenceRepository(next geofence.GeoFenceRepository, store *cache.Cache) geofence.GeoFenceRepository {
	return &geoFenceRepository{next: next, store: store}
}

func activeFencesKey(orgID string) string {
	return "fences:active:" + orgID
}

func (r *geoFenceRepository) Create(ctx context.Context, fence geofence.GeoFence) (geofence.GeoFence, error) {
	created, err := r.next.Create(ctx, fence)
	if err != nil {
		return geofence.GeoFence{}, err
	}
	r.store.Delete(activeFencesKey(fence.OrgID))
	return created, nil
}

func (r *geoFenceRepository) GetByID(ctx context.Context, id string, orgID string) (geofence.GeoFence, error) {
	return r.next.GetByID(ctx, id, orgID)
}

func (r *geoFenceRepository) ListByOrg(ctx context.Context, orgID string) ([]geofence.GeoFence, error) {
	return r.next.ListByOrg(ctx, orgID)
}

func (r *geoFenceRepository) ListActiveByOrg(ctx context.Context, orgID string) ([]geofence.GeoFence, error) {
	if v, found := r.store.Get(activeFencesKey(orgID)); found {
		return v.([]geofence.GeoFence), nil
	}

	fences, err := r.next.ListActiveByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	r.store.SetDefault(activeFencesKey(orgID), fences)
	return fences, nil
}

func (r *geoFenceRepository) Update(ctx context.Context, fence geofence.GeoFence) error {
	if err := r.next.Update(ctx, fence); err != nil {
		return err
	}
	r.store.Delete(activeFencesKey(fence.OrgID))
	return nil
}

func (r *geoFenceRepository) Delete(ctx context.Context, id string, orgID string) error {
	if err := r.next.Delete(ctx, id, orgID); err != nil {
		return err
	}
	r.store.Delete(activeFencesKey(orgID))
	return nil
}
