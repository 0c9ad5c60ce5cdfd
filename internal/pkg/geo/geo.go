package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000

type Point struct {
	Lat float64
	Lng float64
}

// Fence is a circular area around Center.
type Fence struct {
	ID           string
	Center       Point
	RadiusMeters float64
}

// Resolution is the outcome of matching a point against a set of fences.
// FenceID and DistanceMeters are nil when no fence was evaluated.
type Resolution struct {
	FenceID        *string
	DistanceMeters *int
	InFence        bool
	LocationDenied bool
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Resolve picks the nearest fence to point. A nil point yields a
// LocationDenied resolution. With no fences the point is unconstrained.
func Resolve(point *Point, fences []Fence) Resolution {
	if point == nil {
		return Resolution{LocationDenied: true}
	}
	if len(fences) == 0 {
		return Resolution{InFence: true}
	}

	nearest := -1
	minDistance := math.Inf(1)
	for i, fence := range fences {
		d := Distance(*point, fence.Center)
		if d < minDistance {
			minDistance = d
			nearest = i
		}
	}

	// Only reachable when every distance is NaN.
	if nearest < 0 {
		return Resolution{InFence: true}
	}

	fence := fences[nearest]
	id := fence.ID
	rounded := int(math.Round(minDistance))

	return Resolution{
		FenceID:        &id,
		DistanceMeters: &rounded,
		InFence:        minDistance <= fence.RadiusMeters,
	}
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
