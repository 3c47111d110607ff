package domain

import "time"

// Represents a destination placed in the visiting order.
// Order is 1-based. Arrival and departure are attached by scheduling
// and stay nil until then.
type RoutePoint struct {
	Destination
	Order              int        `json:"order"`
	EstimatedArrival   *ClockTime `json:"estimated_arrival,omitempty"`
	EstimatedDeparture *ClockTime `json:"estimated_departure,omitempty"`
}

type EndpointKind string

const (
	EndpointAnchor EndpointKind = "anchor"
	EndpointStop   EndpointKind = "stop"
)

// AnchorRole names a synthetic, non-destination endpoint.
type AnchorRole string

const (
	AnchorStart AnchorRole = "start"
	AnchorEnd   AnchorRole = "end"
)

// Endpoint is one side of a RouteSegment: either an anchor (start or the
// return to start) or a stop taken from the visiting order.
type Endpoint struct {
	Kind        EndpointKind `json:"kind"`
	Anchor      AnchorRole   `json:"anchor,omitempty"`
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Order       int          `json:"order"`
	Coordinates GeoPoint     `json:"coordinates"`
}

func AnchorEndpoint(role AnchorRole, at GeoPoint, order int) Endpoint {
	name := "Start"
	if role == AnchorEnd {
		name = "Return to start"
	}
	return Endpoint{
		Kind:        EndpointAnchor,
		Anchor:      role,
		Name:        name,
		Order:       order,
		Coordinates: at,
	}
}

func StopEndpoint(p RoutePoint) Endpoint {
	return Endpoint{
		Kind:        EndpointStop,
		ID:          p.ID,
		Name:        p.Name,
		Order:       p.Order,
		Coordinates: p.Coordinates,
	}
}

func (e Endpoint) IsAnchor() bool { return e.Kind == EndpointAnchor }

// RoutePoint rebuilds the unscheduled stop an endpoint was taken from.
// Anchors have no stop identity and report ok=false.
func (e Endpoint) RoutePoint() (RoutePoint, bool) {
	if e.Kind != EndpointStop {
		return RoutePoint{}, false
	}
	return RoutePoint{
		Destination: Destination{ID: e.ID, Name: e.Name, Coordinates: e.Coordinates},
		Order:       e.Order,
	}, true
}

// Represents a directed travel leg. Distance is in kilometers rounded to
// two decimals, duration in whole minutes.
type RouteSegment struct {
	From            Endpoint `json:"from"`
	To              Endpoint `json:"to"`
	DistanceKm      float64  `json:"distance_km"`
	DurationMinutes int      `json:"duration_minutes"`
}

// Represents a fully planned single-vehicle circuit.
// Points exclude the return marker; Segments include the return leg, so a
// non-empty route always has len(Segments) == len(Points)+1. TotalDurationMinutes
// includes dwell time at every stop. An OptimizedRoute is built once and
// treated as read-only afterwards.
type OptimizedRoute struct {
	ID                       string         `json:"id"`
	Name                     string         `json:"name"`
	StartLocation            GeoPoint       `json:"start_location"`
	Points                   []RoutePoint   `json:"points"`
	Segments                 []RouteSegment `json:"segments"`
	TotalDistanceKm          float64        `json:"total_distance_km"`
	TotalDurationMinutes     int            `json:"total_duration_minutes"`
	DwellMinutes             int            `json:"dwell_minutes"`
	EstimatedFuelConsumption float64        `json:"estimated_fuel_consumption"`
	EstimatedFuelCost        float64        `json:"estimated_fuel_cost"`
	VehiclePlate             string         `json:"vehicle_plate,omitempty"`
	StartTime                *ClockTime     `json:"start_time,omitempty"`
	EndTime                  *ClockTime     `json:"end_time,omitempty"`
	CreatedAt                time.Time      `json:"created_at"`
}
