package ports

import (
	"context"
	"school-route-service/internal/domain"
)

// Contract for resolving a free-form address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.GeoPoint, error)
}

// Persistent or in-memory address -> coordinates cache used by geocoders.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)
	PutMany(ctx context.Context, results map[string]domain.GeoPoint) error
}
