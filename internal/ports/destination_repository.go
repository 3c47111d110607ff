package ports

import (
	"context"
	"school-route-service/internal/domain"
)

// Port: a boundary for retrieving catalog destinations (schools) from a data source.
type DestinationRepository interface {
	// Retrieve all destinations available for routing.
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
	// Retrieve destinations by id, preserving the order of ids.
	// Unknown ids produce an error wrapping domain.ErrNotFound.
	GetDestinations(ctx context.Context, ids []string) ([]domain.Destination, error)
}
