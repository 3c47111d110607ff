package ports

import (
	"context"
	"school-route-service/internal/domain"
	"time"
)

// Optional cache of planned routes keyed by a request fingerprint.
type RouteCache interface {
	// Return (nil, nil) on a miss.
	GetRoute(ctx context.Context, key string) (*domain.OptimizedRoute, error)
	PutRoute(ctx context.Context, key string, route *domain.OptimizedRoute, ttl time.Duration) error
}
