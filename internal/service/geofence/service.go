package geofence

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
)

type GeoFenceServiceImpl struct {
	geofence.GeoFenceRepository
	now func() time.Time
}

func NewGeoFenceService(geoFenceRepo geofence.GeoFenceRepository, now func() time.Time) geofence.GeoFenceService {
	if now == nil {
		now = time.Now
	}
	return &GeoFenceServiceImpl{GeoFenceRepository: geoFenceRepo, now: now}
}

// List implements geofence.GeoFenceService.
func (s *GeoFenceServiceImpl) List(ctx context.Context, orgID string) ([]geofence.GeoFenceResponse, error) {
	fences, err := s.GeoFenceRepository.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	result := make([]geofence.GeoFenceResponse, 0, len(fences))
	for _, f := range fences {
		result = append(result, geofence.NewGeoFenceResponse(f))
	}
	return result, nil
}

// Create implements geofence.GeoFenceService.
func (s *GeoFenceServiceImpl) Create(ctx context.Context, orgID string, req geofence.CreateGeoFenceRequest) (geofence.GeoFenceResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.GeoFenceResponse{}, err
	}

	created, err := s.GeoFenceRepository.Create(ctx, geofence.NewGeoFence(orgID, req, s.now().UTC()))
	if err != nil {
		return geofence.GeoFenceResponse{}, err
	}

	slog.Info("geofence created", "org_id", orgID, "geofence_id", created.ID, "radius_m", created.RadiusMeters)
	return geofence.NewGeoFenceResponse(created), nil
}

// Update implements geofence.GeoFenceService.
func (s *GeoFenceServiceImpl) Update(ctx context.Context, orgID string, req geofence.UpdateGeoFenceRequest) (geofence.GeoFenceResponse, error) {
	if err := req.Validate(); err != nil {
		return geofence.GeoFenceResponse{}, err
	}

	fence, err := s.GeoFenceRepository.GetByID(ctx, req.ID, orgID)
	if err != nil {
		return geofence.GeoFenceResponse{}, err
	}

	req.Apply(&fence, s.now().UTC())
	if err := s.GeoFenceRepository.Update(ctx, fence); err != nil {
		return geofence.GeoFenceResponse{}, err
	}
	return geofence.NewGeoFenceResponse(fence), nil
}

// Delete implements geofence.GeoFenceService.
func (s *GeoFenceServiceImpl) Delete(ctx context.Context, orgID string, id string) error {
	return s.GeoFenceRepository.Delete(ctx, id, orgID)
}
