package geofence

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/geo"
)

type GeoFence struct {
	ID           string
	OrgID        string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewGeoFence builds an active fence stamped with now.
func NewGeoFence(orgID string, req CreateGeoFenceRequest, now time.Time) GeoFence {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return GeoFence{
		OrgID:        orgID,
		Name:         req.Name,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (f GeoFence) ToGeo() geo.Fence {
	return geo.Fence{
		ID:           f.ID,
		Center:       geo.Point{Lat: f.Latitude, Lng: f.Longitude},
		RadiusMeters: float64(f.RadiusMeters),
	}
}

// ToGeoFences converts fences for resolution, skipping inactive ones.
func ToGeoFences(fences []GeoFence) []geo.Fence {
	result := make([]geo.Fence, 0, len(fences))
	for _, f := range fences {
		if !f.Active {
			continue
		}
		result = append(result, f.ToGeo())
	}
	return result
}
