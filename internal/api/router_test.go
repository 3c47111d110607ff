package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"school-route-service/internal/adapters/repositories"
	"school-route-service/internal/api/dto"
	"school-route-service/internal/api/handlers"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/db"
	"school-route-service/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const seedJSON = `[
	{"id": "A", "name": "School A", "lat": 40.10, "lng": 29.52},
	{"id": "B", "name": "School B", "lat": 40.05, "lng": 29.50}
]`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(ctx, conn))

	seed := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(seedJSON), 0o600))
	require.NoError(t, repositories.SeedFromJSON(ctx, conn, seed))

	ids := 0
	planner := &services.RoutePlanner{
		Destinations: repositories.NewSqliteDestinationRepository(conn),
		Routes:       repositories.NewSqliteRouteRepository(conn),
		Builder: &services.RouteBuilder{
			Now: func() time.Time {
				return time.Date(2026, 3, 1, 7, 0, ids, 0, time.UTC)
			},
			NewID: func() string {
				ids++
				return "route-" + string(rune('0'+ids))
			},
		},
		Logger: zap.NewNop(),
	}

	return NewRouter(RouterDeps{
		Destinations: planner.Destinations,
		Planner:      planner,
		Defaults: handlers.PlanDefaults{
			Name:         services.DefaultRouteName,
			Start:        domain.GeoPoint{Lat: 40.0781, Lng: 29.5135},
			StartTime:    domain.MustParseClock("08:00"),
			DwellMinutes: 15,
			Fuel:         domain.FuelSettings{FuelPrice: 32, AverageConsumption: 25},
		},
		Logger: zap.NewNop(),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestListDestinations(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/destinations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListDestinationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Destinations, 2)
	assert.Equal(t, dto.DestinationResponse{ID: "A", Name: "School A", Lat: 40.10, Lng: 29.52}, res.Destinations[0])
}

func TestCreateRouteFromCatalog(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/routes", `{"destination_ids": ["B", "A"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/routes/route-1", rec.Header().Get("Location"))

	var route domain.OptimizedRoute
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &route))

	assert.Equal(t, services.DefaultRouteName, route.Name)
	require.Len(t, route.Points, 2)
	assert.Equal(t, "A", route.Points[0].ID)
	assert.Equal(t, "B", route.Points[1].ID)
	assert.Len(t, route.Segments, 3)
	assert.Equal(t, 11.64, route.TotalDistanceKm)
	assert.Equal(t, 44, route.TotalDurationMinutes)
	assert.Equal(t, 2.91, route.EstimatedFuelConsumption)
	assert.Equal(t, 93.12, route.EstimatedFuelCost)
	require.NotNil(t, route.EndTime)
	assert.Equal(t, "08:44", route.EndTime.String())

	raw := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "08:00", raw["start_time"])

	get := do(t, h, http.MethodGet, "/routes/route-1", "")
	require.Equal(t, http.StatusOK, get.Code)
	assert.JSONEq(t, rec.Body.String(), get.Body.String())
}

func TestCreateRouteWithInlineStopsAndOverrides(t *testing.T) {
	body := `{
		"name": " Morning ",
		"start": {"lat": 40.0781, "lng": 29.5135},
		"start_time": "07:30",
		"destinations": [{"id": "X", "name": "Inline", "lat": 40.09, "lng": 29.47}],
		"destination_ids": ["A"],
		"vehicle": {"license_plate": "16 ABC 123", "fuel_consumption": 30},
		"fuel": {"price": 40},
		"dwell_minutes": 10
	}`
	rec := do(t, newTestServer(t), http.MethodPost, "/routes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var route domain.OptimizedRoute
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &route))
	assert.Equal(t, "Morning", route.Name)
	assert.Equal(t, "16 ABC 123", route.VehiclePlate)
	assert.Equal(t, 10, route.DwellMinutes)
	assert.Equal(t, "07:30", route.StartTime.String())
	assert.Len(t, route.Points, 2)

	want := services.EstimateFuel(route.TotalDistanceKm, 30, 40)
	assert.Equal(t, want.ConsumptionLiters, route.EstimatedFuelConsumption)
	assert.Equal(t, want.Cost, route.EstimatedFuelCost)
}

func TestCreateRouteEmpty(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/routes", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var route domain.OptimizedRoute
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &route))
	assert.Empty(t, route.Points)
	assert.Empty(t, route.Segments)
	assert.Zero(t, route.TotalDistanceKm)
	assert.Equal(t, route.StartTime, route.EndTime)
}

func TestCreateRouteErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed json", body: `{`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"truck_count": 3}`, want: http.StatusBadRequest},
		{name: "two objects", body: `{}{}`, want: http.StatusBadRequest},
		{name: "bad start time", body: `{"start_time": "8am"}`, want: http.StatusBadRequest},
		{name: "latitude out of range", body: `{"start": {"lat": 95, "lng": 1}}`, want: http.StatusBadRequest},
		{name: "half coordinate", body: `{"start": {"lat": 40}}`, want: http.StatusBadRequest},
		{name: "negative fuel price", body: `{"fuel": {"price": -1}}`, want: http.StatusBadRequest},
		{name: "zero dwell", body: `{"dwell_minutes": 0}`, want: http.StatusBadRequest},
		{name: "missing stop id", body: `{"destinations": [{"lat": 40, "lng": 29}]}`, want: http.StatusBadRequest},
		{name: "duplicate ids", body: `{"destinations": [{"id": "A", "lat": 40, "lng": 29}], "destination_ids": ["A"]}`, want: http.StatusBadRequest},
		{name: "stop without location", body: `{"destinations": [{"id": "Z"}]}`, want: http.StatusBadRequest},
		{name: "unknown catalog id", body: `{"destination_ids": ["nope"]}`, want: http.StatusNotFound},
		{name: "address without geocoder", body: `{"start": {"address": "Inegol"}}`, want: http.StatusServiceUnavailable},
	}

	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/routes", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			var res map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.NotEmpty(t, res["error"])
		})
	}
}

func TestListRoutes(t *testing.T) {
	h := newTestServer(t)

	for n := 0; n < 3; n++ {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/routes", `{"destination_ids": ["A"]}`).Code)
	}

	rec := do(t, h, http.MethodGet, "/routes?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListRoutesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Routes, 2)
	assert.Equal(t, "route-3", res.Routes[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/routes?limit=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/routes?limit=abc", "").Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/routes/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nowhere", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodDelete, "/routes", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/routes", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	newTestServer(t).ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
