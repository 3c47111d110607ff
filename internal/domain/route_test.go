package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointRoutePoint(t *testing.T) {
	p := RoutePoint{
		Destination: Destination{ID: "s1", Name: "School", Coordinates: GeoPoint{Lat: 40.1, Lng: 29.5}},
		Order:       2,
	}

	stop := StopEndpoint(p)
	assert.False(t, stop.IsAnchor())
	got, ok := stop.RoutePoint()
	assert.True(t, ok)
	assert.Equal(t, p, got)

	end := AnchorEndpoint(AnchorEnd, GeoPoint{Lat: 1, Lng: 2}, 3)
	assert.True(t, end.IsAnchor())
	assert.Equal(t, AnchorEnd, end.Anchor)
	_, ok = end.RoutePoint()
	assert.False(t, ok)
}

func TestConsumptionRate(t *testing.T) {
	s := FuelSettings{FuelPrice: 32, AverageConsumption: 25}

	assert.Equal(t, 25.0, s.ConsumptionRate(nil))
	assert.Equal(t, 25.0, s.ConsumptionRate(&Vehicle{LicensePlate: "16 ABC 123"}))
	assert.Equal(t, 18.5, s.ConsumptionRate(&Vehicle{FuelConsumption: 18.5}))
}
