package services

import (
	"school-route-service/internal/domain"
)

// BuildTour orders destinations using a greedy nearest-neighbor walk from start.
//
// At each step the closest unvisited destination is chosen. Exact ties go to
// the destination that appears first in the input, so the result is
// reproducible for a given input order. The tour carries no optimality
// guarantee and costs O(N^2) distance evaluations.
func BuildTour(start domain.GeoPoint, destinations []domain.Destination) []domain.RoutePoint {
	if len(destinations) == 0 {
		return []domain.RoutePoint{}
	}

	unvisited := make([]domain.Destination, len(destinations))
	copy(unvisited, destinations)

	tour := make([]domain.RoutePoint, 0, len(destinations))
	current := start

	for len(unvisited) > 0 {
		nearestIdx := 0
		nearestDist := Distance(current, unvisited[0].Coordinates)

		// Strict comparison keeps the first minimum in input order.
		for i := 1; i < len(unvisited); i++ {
			if d := Distance(current, unvisited[i].Coordinates); d < nearestDist {
				nearestDist = d
				nearestIdx = i
			}
		}

		next := unvisited[nearestIdx]
		tour = append(tour, domain.RoutePoint{
			Destination: next,
			Order:       len(tour) + 1,
		})

		current = next.Coordinates
		unvisited = append(unvisited[:nearestIdx], unvisited[nearestIdx+1:]...)
	}

	return tour
}
