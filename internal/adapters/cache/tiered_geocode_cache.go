package cache

import (
	"context"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/ports"

	"go.uber.org/zap"
)

// TieredGeocodeCache reads through a fast cache into a durable one and
// back-fills the fast tier with whatever the durable tier knew.
type TieredGeocodeCache struct {
	Fast    ports.GeocodeCache
	Durable ports.GeocodeCache
}

func NewTieredGeocodeCache(fast, durable ports.GeocodeCache) *TieredGeocodeCache {
	return &TieredGeocodeCache{Fast: fast, Durable: durable}
}

func (t *TieredGeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	hits, err := t.Fast.GetMany(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("tiered geocode cache: fast tier: %w", err)
	}

	misses := make([]string, 0, len(addresses))
	for _, a := range uniqueAddresses(addresses) {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}
	if len(misses) == 0 || t.Durable == nil {
		return hits, nil
	}

	durable, err := t.Durable.GetMany(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("tiered geocode cache: durable tier: %w", err)
	}

	if len(durable) > 0 {
		if err := t.Fast.PutMany(ctx, durable); err != nil {
			zap.L().Warn("geocode fast cache back-fill failed", zap.Error(err))
		}
	}

	for k, v := range durable {
		hits[k] = v
	}
	return hits, nil
}

func (t *TieredGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) error {
	if err := t.Fast.PutMany(ctx, results); err != nil {
		return fmt.Errorf("tiered geocode cache: fast tier: %w", err)
	}
	if t.Durable == nil {
		return nil
	}
	if err := t.Durable.PutMany(ctx, results); err != nil {
		return fmt.Errorf("tiered geocode cache: durable tier: %w", err)
	}
	return nil
}
