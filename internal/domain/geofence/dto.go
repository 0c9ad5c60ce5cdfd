package geofence

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type CreateGeoFenceRequest struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lng"`
	RadiusMeters int     `json:"radius_m"`
	Active       *bool   `json:"active,omitempty"`
}

func (r *CreateGeoFenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if !validator.IsValidLatitude(r.Latitude) {
		errs.Add("lat", "lat must be between -90 and 90")
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs.Add("lng", "lng must be between -180 and 180")
	}
	if r.RadiusMeters <= 0 || r.RadiusMeters > 50000 {
		errs.Add("radius_m", "radius_m must be between 1 and 50000")
	}

	return errs.Err()
}

type UpdateGeoFenceRequest struct {
	ID           string   `json:"-"`
	Name         *string  `json:"name,omitempty"`
	Latitude     *float64 `json:"lat,omitempty"`
	Longitude    *float64 `json:"lng,omitempty"`
	RadiusMeters *int     `json:"radius_m,omitempty"`
	Active       *bool    `json:"active,omitempty"`
}

func (r *UpdateGeoFenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name cannot be empty")
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs.Add("lat", "lat must be between -90 and 90")
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs.Add("lng", "lng must be between -180 and 180")
	}
	if r.RadiusMeters != nil && (*r.RadiusMeters <= 0 || *r.RadiusMeters > 50000) {
		errs.Add("radius_m", "radius_m must be between 1 and 50000")
	}

	return errs.Err()
}

// Apply copies the set fields onto f.
func (r *UpdateGeoFenceRequest) Apply(f *GeoFence, now time.Time) {
	if r.Name != nil {
		f.Name = *r.Name
	}
	if r.Latitude != nil {
		f.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		f.Longitude = *r.Longitude
	}
	if r.RadiusMeters != nil {
		f.RadiusMeters = *r.RadiusMeters
	}
	if r.Active != nil {
		f.Active = *r.Active
	}
	f.UpdatedAt = now
}

type GeoFenceResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lng"`
	RadiusMeters int     `json:"radius_m"`
	Active       bool    `json:"active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewGeoFenceResponse(f GeoFence) GeoFenceResponse {
	return GeoFenceResponse{
		ID:           f.ID,
		Name:         f.Name,
		Latitude:     f.Latitude,
		Longitude:    f.Longitude,
		RadiusMeters: f.RadiusMeters,
		Active:       f.Active,
		CreatedAt:    f.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    f.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
