package geofence

import "context"

type GeoFenceService interface {
	List(ctx context.Context, orgID string) ([]GeoFenceResponse, error)
	Create(ctx context.Context, orgID string, req CreateGeoFenceRequest) (GeoFenceResponse, error)
	Update(ctx context.Context, orgID string, req UpdateGeoFenceRequest) (GeoFenceResponse, error)
	Delete(ctx context.Context, orgID string, id string) error
}
