package ports

import (
	"context"
	"school-route-service/internal/domain"
)

// Port: persistence of planned routes.
type RouteRepository interface {
	SaveRoute(ctx context.Context, route *domain.OptimizedRoute) error
	// Return domain.ErrNotFound when no route has the given id.
	GetRoute(ctx context.Context, id string) (*domain.OptimizedRoute, error)
	// Return the newest routes first.
	ListRoutes(ctx context.Context, limit int) ([]*domain.OptimizedRoute, error)
}
