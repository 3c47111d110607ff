package services

import (
	"math"
	"school-route-service/internal/domain"
)

// AssumedSpeedKmh is the constant travel speed used to derive leg durations.
const AssumedSpeedKmh = 50.0

// BuildSegments turns a visiting order into travel legs, closing the loop with
// a return leg to start. N points yield N+1 segments; no points yield none.
//
// Durations come from the unrounded leg distance; the stored distance is then
// rounded to two decimals.
func BuildSegments(start domain.GeoPoint, points []domain.RoutePoint) []domain.RouteSegment {
	if len(points) == 0 {
		return []domain.RouteSegment{}
	}

	segments := make([]domain.RouteSegment, 0, len(points)+1)
	from := domain.AnchorEndpoint(domain.AnchorStart, start, 0)

	for _, p := range points {
		to := domain.StopEndpoint(p)
		segments = append(segments, newSegment(from, to))
		from = to
	}

	end := domain.AnchorEndpoint(domain.AnchorEnd, start, len(points)+1)
	segments = append(segments, newSegment(from, end))

	return segments
}

func newSegment(from, to domain.Endpoint) domain.RouteSegment {
	km := Distance(from.Coordinates, to.Coordinates)
	return domain.RouteSegment{
		From:            from,
		To:              to,
		DistanceKm:      round2(km),
		DurationMinutes: travelMinutes(km),
	}
}

func travelMinutes(km float64) int {
	return int(math.Round(km / AssumedSpeedKmh * 60))
}
