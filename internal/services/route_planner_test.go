package services

import (
	"context"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoutes struct {
	saved []*domain.OptimizedRoute
	err   error
}

func (f *fakeRoutes) SaveRoute(ctx context.Context, r *domain.OptimizedRoute) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeRoutes) GetRoute(ctx context.Context, id string) (*domain.OptimizedRoute, error) {
	for _, r := range f.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoutes) ListRoutes(ctx context.Context, limit int) ([]*domain.OptimizedRoute, error) {
	return f.saved, nil
}

type fakeCatalog map[string]domain.Destination

func (f fakeCatalog) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	out := make([]domain.Destination, 0, len(f))
	for _, d := range f {
		out = append(out, d)
	}
	return out, nil
}

func (f fakeCatalog) GetDestinations(ctx context.Context, ids []string) ([]domain.Destination, error) {
	out := make([]domain.Destination, 0, len(ids))
	for _, id := range ids {
		d, ok := f[id]
		if !ok {
			return nil, fmt.Errorf("destination %q: %w", id, domain.ErrNotFound)
		}
		out = append(out, d)
	}
	return out, nil
}

type fakeGeocoder struct {
	mu     sync.Mutex
	points map[string]domain.GeoPoint
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.points[address]
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("no result for %q", address)
	}
	return p, nil
}

type fakeCache struct {
	entries map[string]*domain.OptimizedRoute
	ttl     time.Duration
}

func (f *fakeCache) GetRoute(ctx context.Context, key string) (*domain.OptimizedRoute, error) {
	return f.entries[key], nil
}

func (f *fakeCache) PutRoute(ctx context.Context, key string, r *domain.OptimizedRoute, ttl time.Duration) error {
	f.entries[key] = r
	f.ttl = ttl
	return nil
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishRouteOptimized(ctx context.Context, r *domain.OptimizedRoute) error {
	f.published = append(f.published, r.ID)
	return f.err
}

func point(lat, lng float64) *domain.GeoPoint {
	return &domain.GeoPoint{Lat: lat, Lng: lng}
}

func basePlanRequest() PlanRouteRequest {
	return PlanRouteRequest{
		Name:  "morning",
		Start: Location{Point: point(40.0781, 29.5135)},
		Destinations: []DestinationInput{
			{ID: "A", Name: "School A", Location: Location{Point: point(40.10, 29.52)}},
			{ID: "B", Name: "School B", Location: Location{Address: "Cuma Mah. Inegol"}},
		},
		StartTime:    domain.MustParseClock("08:00"),
		DwellMinutes: 15,
		Fuel:         domain.FuelSettings{FuelPrice: 32, AverageConsumption: 25},
	}
}

func TestRoutePlannerPlan(t *testing.T) {
	routes := &fakeRoutes{}
	geocoder := &fakeGeocoder{points: map[string]domain.GeoPoint{
		"Cuma Mah. Inegol": {Lat: 40.05, Lng: 29.50},
	}}
	publisher := &fakePublisher{}

	planner := &RoutePlanner{
		Routes:   routes,
		Geocoder: geocoder,
		Events:   publisher,
		Builder:  fixedBuilder(),
	}

	route, err := planner.Plan(context.Background(), basePlanRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, tourIDs(route.Points))
	assert.Equal(t, domain.GeoPoint{Lat: 40.05, Lng: 29.50}, route.Points[1].Coordinates)
	assert.Equal(t, 1, geocoder.calls)
	require.Len(t, routes.saved, 1)
	assert.Same(t, route, routes.saved[0])
	assert.Equal(t, []string{"route-1"}, publisher.published)
}

func TestRoutePlannerUsesCatalog(t *testing.T) {
	catalog := fakeCatalog{
		"C": {ID: "C", Name: "School C", Coordinates: domain.GeoPoint{Lat: 40.09, Lng: 29.47}},
	}
	planner := &RoutePlanner{Routes: &fakeRoutes{}, Destinations: catalog, Builder: fixedBuilder()}

	req := basePlanRequest()
	req.Destinations = req.Destinations[:1]
	req.DestinationIDs = []string{"C"}

	route, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "C"}, tourIDs(route.Points))

	req.DestinationIDs = []string{"missing"}
	_, err = planner.Plan(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoutePlannerRejectsBadInput(t *testing.T) {
	planner := &RoutePlanner{Routes: &fakeRoutes{}, Builder: fixedBuilder()}

	// Address without a geocoder.
	_, err := planner.Plan(context.Background(), basePlanRequest())
	assert.ErrorIs(t, err, domain.ErrGeocodingUnavailable)

	dup := basePlanRequest()
	dup.Destinations[1] = DestinationInput{ID: "A", Location: Location{Point: point(40, 29)}}
	_, err = planner.Plan(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	noID := basePlanRequest()
	noID.Destinations[0].ID = " "
	_, err = planner.Plan(context.Background(), noID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	noStart := basePlanRequest()
	noStart.Destinations = noStart.Destinations[:1]
	noStart.Start = Location{}
	_, err = planner.Plan(context.Background(), noStart)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ids := basePlanRequest()
	ids.Destinations = nil
	ids.DestinationIDs = []string{"x"}
	_, err = planner.Plan(context.Background(), ids)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoutePlannerCache(t *testing.T) {
	routes := &fakeRoutes{}
	cache := &fakeCache{entries: map[string]*domain.OptimizedRoute{}}
	ids := 0
	planner := &RoutePlanner{
		Routes: routes,
		Cache:  cache,
		Builder: &RouteBuilder{
			Now:   func() time.Time { return fixedNow },
			NewID: func() string { ids++; return fmt.Sprintf("route-%d", ids) },
		},
		CacheTTL: time.Hour,
	}

	req := basePlanRequest()
	req.Destinations = req.Destinations[:1]

	first, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	second, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, routes.saved, 1)
	assert.Equal(t, time.Hour, cache.ttl)

	req.DwellMinutes = 20
	third, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestRoutePlannerSideEffectFailures(t *testing.T) {
	req := basePlanRequest()
	req.Destinations = req.Destinations[:1]

	planner := &RoutePlanner{
		Routes:  &fakeRoutes{},
		Events:  &fakePublisher{err: errors.New("broker down")},
		Builder: fixedBuilder(),
	}
	_, err := planner.Plan(context.Background(), req)
	require.NoError(t, err, "publish failures are not fatal")

	planner.Routes = &fakeRoutes{err: errors.New("disk full")}
	_, err = planner.Plan(context.Background(), req)
	assert.ErrorContains(t, err, "disk full")
}

func TestRoutePlannerGet(t *testing.T) {
	routes := &fakeRoutes{saved: []*domain.OptimizedRoute{{ID: "r1"}}}
	planner := &RoutePlanner{Routes: routes}

	got, err := planner.Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)

	_, err = planner.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = planner.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFingerprintStable(t *testing.T) {
	req := NewRouteRequest("r", domain.GeoPoint{Lat: 1, Lng: 2}, []domain.Destination{dest("A", 1, 1), dest("B", 2, 2)})

	a, err := Fingerprint(req)
	require.NoError(t, err)
	b, err := Fingerprint(req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	swapped := req
	swapped.Destinations = []domain.Destination{dest("B", 2, 2), dest("A", 1, 1)}
	c, err := Fingerprint(swapped)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
