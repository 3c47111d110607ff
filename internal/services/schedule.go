package services

import (
	"school-route-service/internal/domain"
)

// DefaultDwellMinutes is the time spent at each stop when none is configured.
const DefaultDwellMinutes = 15

// ScheduleStops walks the legs in order and stamps each stop with its arrival
// (clock advanced by the leg duration) and departure (arrival plus dwell).
// The trailing return leg has no stop and is skipped. Times are wall-clock
// only and wrap at midnight.
func ScheduleStops(segments []domain.RouteSegment, start domain.ClockTime, dwellMinutes int) []domain.RoutePoint {
	if len(segments) == 0 {
		return []domain.RoutePoint{}
	}

	points := make([]domain.RoutePoint, 0, len(segments)-1)
	clock := start

	for _, seg := range segments[:len(segments)-1] {
		p, ok := seg.To.RoutePoint()
		if !ok {
			continue
		}

		arrival := clock.Add(seg.DurationMinutes)
		departure := arrival.Add(dwellMinutes)
		p.EstimatedArrival = &arrival
		p.EstimatedDeparture = &departure

		points = append(points, p)
		clock = departure
	}

	return points
}
