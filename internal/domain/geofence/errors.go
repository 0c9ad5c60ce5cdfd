package geofence

import "errors"

var (
	ErrGeoFenceNotFound = errors.New("geofence not found")
)
