package cache

import (
	"context"
	"school-route-service/internal/domain"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultGeocodeTTL    = 24 * time.Hour
	geocodeCleanupPeriod = 30 * time.Minute
)

// MemoryGeocodeCache keeps recent geocoding results in process memory.
type MemoryGeocodeCache struct {
	c *gocache.Cache
}

func NewMemoryGeocodeCache(ttl time.Duration) *MemoryGeocodeCache {
	if ttl <= 0 {
		ttl = DefaultGeocodeTTL
	}
	return &MemoryGeocodeCache{c: gocache.New(ttl, geocodeCleanupPeriod)}
}

func (m *MemoryGeocodeCache) GetMany(_ context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	out := make(map[string]domain.GeoPoint, len(addresses))
	for _, a := range uniqueAddresses(addresses) {
		if v, ok := m.c.Get(a); ok {
			out[a] = v.(domain.GeoPoint)
		}
	}
	return out, nil
}

func (m *MemoryGeocodeCache) PutMany(_ context.Context, results map[string]domain.GeoPoint) error {
	for addr, pt := range results {
		m.c.SetDefault(addr, pt)
	}
	return nil
}
