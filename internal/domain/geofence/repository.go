package geofence

import "context"

type GeoFenceRepository interface {
	Create(ctx context.Context, fence GeoFence) (GeoFence, error)
	GetByID(ctx context.Context, id string, orgID string) (GeoFence, error)
	ListByOrg(ctx context.Context, orgID string) ([]GeoFence, error)
	ListActiveByOrg(ctx context.Context, orgID string) ([]GeoFence, error)
	Update(ctx context.Context, fence GeoFence) error
	Delete(ctx context.Context, id string, orgID string) error
}
