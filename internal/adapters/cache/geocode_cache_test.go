package cache

import (
	"context"
	"errors"
	"school-route-service/internal/adapters/repositories"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/db"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteGeocodeCache(t *testing.T) {
	ctx := context.Background()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(ctx, conn))

	c := NewSqliteGeocodeCache(conn)

	got, err := c.GetMany(ctx, []string{"Inegol"})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.PutMany(ctx, map[string]domain.GeoPoint{
		"Inegol": {Lat: 40.0781, Lng: 29.5135},
		"Bursa":  {Lat: 40.1885, Lng: 29.0610},
	}))
	require.NoError(t, c.PutMany(ctx, map[string]domain.GeoPoint{
		"Bursa": {Lat: 40.19, Lng: 29.06},
	}))

	got, err = c.GetMany(ctx, []string{" Inegol ", "Bursa", "Bursa", "", "Ankara"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.GeoPoint{
		"Inegol": {Lat: 40.0781, Lng: 29.5135},
		"Bursa":  {Lat: 40.19, Lng: 29.06},
	}, got)

	err = c.PutMany(ctx, map[string]domain.GeoPoint{" ": {}})
	assert.Error(t, err)
}

func TestMemoryGeocodeCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryGeocodeCache(time.Minute)

	require.NoError(t, c.PutMany(ctx, map[string]domain.GeoPoint{"a": {Lat: 1, Lng: 2}}))

	got, err := c.GetMany(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.GeoPoint{"a": {Lat: 1, Lng: 2}}, got)
}

type countingCache struct {
	data  map[string]domain.GeoPoint
	asked [][]string
	err   error
}

func (c *countingCache) GetMany(_ context.Context, addresses []string) (map[string]domain.GeoPoint, error) {
	c.asked = append(c.asked, addresses)
	if c.err != nil {
		return nil, c.err
	}
	out := map[string]domain.GeoPoint{}
	for _, a := range addresses {
		if v, ok := c.data[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *countingCache) PutMany(_ context.Context, results map[string]domain.GeoPoint) error {
	if c.err != nil {
		return c.err
	}
	if c.data == nil {
		c.data = map[string]domain.GeoPoint{}
	}
	for k, v := range results {
		c.data[k] = v
	}
	return nil
}

func TestTieredGeocodeCacheBackfillsFastTier(t *testing.T) {
	ctx := context.Background()
	fast := NewMemoryGeocodeCache(time.Minute)
	durable := &countingCache{data: map[string]domain.GeoPoint{"b": {Lat: 3, Lng: 4}}}
	tiered := NewTieredGeocodeCache(fast, durable)

	require.NoError(t, fast.PutMany(ctx, map[string]domain.GeoPoint{"a": {Lat: 1, Lng: 2}}))

	got, err := tiered.GetMany(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.Len(t, durable.asked, 1)
	assert.Equal(t, []string{"b", "c"}, durable.asked[0])

	// "b" now lives in the fast tier.
	_, err = tiered.GetMany(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, durable.asked, 1)

	require.NoError(t, tiered.PutMany(ctx, map[string]domain.GeoPoint{"c": {Lat: 5, Lng: 6}}))
	assert.Contains(t, durable.data, "c")
}

func TestTieredGeocodeCachePropagatesDurableErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")
	tiered := NewTieredGeocodeCache(NewMemoryGeocodeCache(0), &countingCache{err: boom})

	_, err := tiered.GetMany(ctx, []string{"x"})
	assert.ErrorIs(t, err, boom)

	err = tiered.PutMany(ctx, map[string]domain.GeoPoint{"x": {}})
	assert.ErrorIs(t, err, boom)
}
