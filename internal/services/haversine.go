package services

import (
	"math"
	"school-route-service/internal/domain"
)

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between two points in kilometers
// using the haversine formula. It is symmetric and zero for identical points.
// Coordinates are not range checked.
func Distance(a, b domain.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// Floating point can push h slightly outside [0,1] near identical or antipodal points.
	h = math.Min(1, math.Max(0, h))

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
