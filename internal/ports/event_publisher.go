package ports

import (
	"context"
	"school-route-service/internal/domain"
)

// Publishes notifications about newly planned routes.
type RouteEventPublisher interface {
	PublishRouteOptimized(ctx context.Context, route *domain.OptimizedRoute) error
}
