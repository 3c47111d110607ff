package services

import (
	"school-route-service/internal/domain"
	"time"

	"github.com/google/uuid"
)

// Defaults applied by NewRouteRequest.
const (
	DefaultRouteName       = "İnegöl Okul Rotası"
	DefaultStartTime       = "08:00"
	DefaultFuelConsumption = 25.0
	DefaultFuelPrice       = 32.0
)

// RouteRequest is the complete input of the route assembler.
// Destinations must already carry resolved coordinates.
type RouteRequest struct {
	Name          string
	StartLocation domain.GeoPoint
	Destinations  []domain.Destination
	StartTime     domain.ClockTime
	DwellMinutes  int
	Vehicle       *domain.Vehicle
	Fuel          domain.FuelSettings
}

// NewRouteRequest returns a request populated with the default start time,
// dwell and fuel settings.
func NewRouteRequest(name string, start domain.GeoPoint, destinations []domain.Destination) RouteRequest {
	return RouteRequest{
		Name:          name,
		StartLocation: start,
		Destinations:  destinations,
		StartTime:     domain.MustParseClock(DefaultStartTime),
		DwellMinutes:  DefaultDwellMinutes,
		Fuel: domain.FuelSettings{
			FuelPrice:          DefaultFuelPrice,
			AverageConsumption: DefaultFuelConsumption,
		},
	}
}

// RouteBuilder assembles OptimizedRoutes. It holds no state between calls;
// the clock and id source are injectable for tests.
type RouteBuilder struct {
	Now   func() time.Time
	NewID func() string
}

func NewRouteBuilder() *RouteBuilder {
	return &RouteBuilder{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: func() string { return uuid.NewString() },
	}
}

// BuildOptimizedRoute assembles a route with the default builder.
func BuildOptimizedRoute(req RouteRequest) *domain.OptimizedRoute {
	return NewRouteBuilder().Build(req)
}

// Build runs tour construction, leg derivation, scheduling and fuel estimation
// and returns the finished route. An empty destination set yields a route with
// no points, no segments and zero totals.
func (b *RouteBuilder) Build(req RouteRequest) *domain.OptimizedRoute {
	tour := BuildTour(req.StartLocation, req.Destinations)
	segments := BuildSegments(req.StartLocation, tour)
	points := ScheduleStops(segments, req.StartTime, req.DwellMinutes)

	var distanceSum float64
	travelMinutes := 0
	for _, s := range segments {
		distanceSum += s.DistanceKm
		travelMinutes += s.DurationMinutes
	}

	totalDistance := round2(distanceSum)
	totalDuration := travelMinutes + req.DwellMinutes*len(points)

	fuel := FuelEstimate{}
	if len(segments) > 0 {
		fuel = EstimateFuel(totalDistance, req.Fuel.ConsumptionRate(req.Vehicle), req.Fuel.FuelPrice)
	}

	startTime := req.StartTime
	endTime := startTime.Add(totalDuration)

	route := &domain.OptimizedRoute{
		ID:                       b.NewID(),
		Name:                     req.Name,
		StartLocation:            req.StartLocation,
		Points:                   points,
		Segments:                 segments,
		TotalDistanceKm:          totalDistance,
		TotalDurationMinutes:     totalDuration,
		DwellMinutes:             req.DwellMinutes,
		EstimatedFuelConsumption: fuel.ConsumptionLiters,
		EstimatedFuelCost:        fuel.Cost,
		StartTime:                &startTime,
		EndTime:                  &endTime,
		CreatedAt:                b.Now(),
	}
	if req.Vehicle != nil {
		route.VehiclePlate = req.Vehicle.LicensePlate
	}

	return route
}
