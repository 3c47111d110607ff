package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/obs"
	"school-route-service/internal/ports"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Location is either resolved coordinates or an address still to be geocoded.
type Location struct {
	Point   *domain.GeoPoint
	Address string
}

// DestinationInput is an ad-hoc stop supplied with a plan request.
type DestinationInput struct {
	ID       string
	Name     string
	Location Location
}

// PlanRouteRequest is the application-level request handled by RoutePlanner.
// Destinations and catalog DestinationIDs are combined, inline stops first.
type PlanRouteRequest struct {
	Name           string
	Start          Location
	Destinations   []DestinationInput
	DestinationIDs []string
	StartTime      domain.ClockTime
	DwellMinutes   int
	Vehicle        *domain.Vehicle
	Fuel           domain.FuelSettings
}

// RoutePlanner hosts the route assembler behind storage, caching, geocoding
// and event publishing. Only Routes is required; the other collaborators are
// optional and skipped when nil.
type RoutePlanner struct {
	Destinations ports.DestinationRepository
	Routes       ports.RouteRepository
	Geocoder     ports.Geocoder
	Cache        ports.RouteCache
	Events       ports.RouteEventPublisher
	Builder      *RouteBuilder
	CacheTTL     time.Duration
	Logger       *zap.Logger
}

// Plan resolves every location, assembles the route and records it.
// Identical requests are answered from the cache when one is configured.
func (p *RoutePlanner) Plan(ctx context.Context, req PlanRouteRequest) (_ *domain.OptimizedRoute, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	if p.Routes == nil {
		return nil, errors.New("plan route: route repository is nil")
	}

	routeReq, err := p.resolve(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	key, err := Fingerprint(routeReq)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	if p.Cache != nil {
		cached, err := p.Cache.GetRoute(ctx, key)
		if err != nil {
			p.logger().Warn("route cache read failed", zap.String("key", key), zap.Error(err))
		} else if cached != nil {
			p.logger().Debug("route cache hit", zap.String("key", key), zap.String("route_id", cached.ID))
			return cached, nil
		}
	}

	builder := p.Builder
	if builder == nil {
		builder = NewRouteBuilder()
	}
	route := builder.Build(routeReq)

	if err := p.Routes.SaveRoute(ctx, route); err != nil {
		return nil, fmt.Errorf("plan route: save route %s: %w", route.ID, err)
	}

	if p.Cache != nil {
		if err := p.Cache.PutRoute(ctx, key, route, p.CacheTTL); err != nil {
			p.logger().Warn("route cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	if p.Events != nil {
		if err := p.Events.PublishRouteOptimized(ctx, route); err != nil {
			p.logger().Warn("publish route event failed", zap.String("route_id", route.ID), zap.Error(err))
		}
	}

	p.logger().Info("route planned",
		zap.String("route_id", route.ID),
		zap.Int("stops", len(route.Points)),
		zap.Float64("distance_km", route.TotalDistanceKm),
		zap.Int("duration_min", route.TotalDurationMinutes),
	)

	return route, nil
}

// Get returns a stored route by id.
func (p *RoutePlanner) Get(ctx context.Context, id string) (*domain.OptimizedRoute, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("get route: empty id: %w", domain.ErrInvalidInput)
	}

	route, err := p.Routes.GetRoute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get route %q: %w", id, err)
	}
	return route, nil
}

// List returns stored routes, newest first.
func (p *RoutePlanner) List(ctx context.Context, limit int) ([]*domain.OptimizedRoute, error) {
	routes, err := p.Routes.ListRoutes(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// resolve turns a plan request into a core RouteRequest with coordinates for
// the start and every destination.
func (p *RoutePlanner) resolve(ctx context.Context, req PlanRouteRequest) (RouteRequest, error) {
	destinations, err := resolveDestinations(ctx, p.Geocoder, req.Destinations)
	if err != nil {
		return RouteRequest{}, err
	}

	if len(req.DestinationIDs) > 0 {
		if p.Destinations == nil {
			return RouteRequest{}, fmt.Errorf("destination ids given but no catalog is configured: %w", domain.ErrInvalidInput)
		}
		catalog, err := p.Destinations.GetDestinations(ctx, req.DestinationIDs)
		if err != nil {
			return RouteRequest{}, fmt.Errorf("load catalog destinations: %w", err)
		}
		destinations = append(destinations, catalog...)
	}

	if err := checkUniqueIDs(destinations); err != nil {
		return RouteRequest{}, err
	}

	start, err := resolveLocation(ctx, p.Geocoder, req.Start)
	if err != nil {
		return RouteRequest{}, fmt.Errorf("resolve start location: %w", err)
	}

	return RouteRequest{
		Name:          req.Name,
		StartLocation: start,
		Destinations:  destinations,
		StartTime:     req.StartTime,
		DwellMinutes:  req.DwellMinutes,
		Vehicle:       req.Vehicle,
		Fuel:          req.Fuel,
	}, nil
}

func checkUniqueIDs(destinations []domain.Destination) error {
	seen := make(map[string]struct{}, len(destinations))
	for _, d := range destinations {
		if _, ok := seen[d.ID]; ok {
			return fmt.Errorf("duplicate destination id %q: %w", d.ID, domain.ErrInvalidInput)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

func (p *RoutePlanner) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.L()
	}
	return p.Logger
}

// Fingerprint derives a stable cache key from everything that influences the
// assembled route. Destination order is part of the key because it decides
// nearest-neighbor ties.
func Fingerprint(req RouteRequest) (string, error) {
	payload := struct {
		Name         string               `json:"name"`
		Start        domain.GeoPoint      `json:"start"`
		Destinations []domain.Destination `json:"destinations"`
		StartTime    domain.ClockTime     `json:"start_time"`
		Dwell        int                  `json:"dwell"`
		Plate        string               `json:"plate"`
		Rate         float64              `json:"rate"`
		Price        float64              `json:"price"`
	}{
		Name:         req.Name,
		Start:        req.StartLocation,
		Destinations: req.Destinations,
		StartTime:    req.StartTime,
		Dwell:        req.DwellMinutes,
		Rate:         req.Fuel.ConsumptionRate(req.Vehicle),
		Price:        req.Fuel.FuelPrice,
	}
	if req.Vehicle != nil {
		payload.Plate = req.Vehicle.LicensePlate
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("fingerprint route request: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
