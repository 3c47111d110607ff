package handlers

import (
	"context"
	"fmt"
	"net/http"
	"school-route-service/internal/api/dto"
	"school-route-service/internal/domain"
	"school-route-service/internal/services"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxListLimit = 200

// RoutePlanner is the application service behind the route endpoints.
type RoutePlanner interface {
	Plan(ctx context.Context, req services.PlanRouteRequest) (*domain.OptimizedRoute, error)
	Get(ctx context.Context, id string) (*domain.OptimizedRoute, error)
	List(ctx context.Context, limit int) ([]*domain.OptimizedRoute, error)
}

// PlanDefaults fill in whatever a plan request leaves out.
type PlanDefaults struct {
	Name         string
	Start        domain.GeoPoint
	StartTime    domain.ClockTime
	DwellMinutes int
	Fuel         domain.FuelSettings
}

type RouteHandler struct {
	Planner  RoutePlanner
	Defaults PlanDefaults
	Validate *validator.Validate
}

func NewRouteHandler(planner RoutePlanner, defaults PlanDefaults) *RouteHandler {
	return &RouteHandler{
		Planner:  planner,
		Defaults: defaults,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Create plans a route from the request body and returns it with 201.
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRouteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	planReq, err := h.toPlanRequest(req)
	if err != nil {
		writeServiceError(w, r, "plan route", err)
		return
	}

	route, err := h.Planner.Plan(r.Context(), planReq)
	if err != nil {
		writeServiceError(w, r, "plan route", err)
		return
	}

	w.Header().Set("Location", "/routes/"+route.ID)
	writeJSON(w, r, http.StatusCreated, route)
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	route, err := h.Planner.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, "get route", err)
		return
	}
	writeJSON(w, r, http.StatusOK, route)
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
			return
		}
		limit = n
	}

	routes, err := h.Planner.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, "list routes", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListRoutesResponse{Routes: routes})
}

func (h *RouteHandler) toPlanRequest(req dto.PlanRouteRequest) (services.PlanRouteRequest, error) {
	d := h.Defaults

	out := services.PlanRouteRequest{
		Name:           strings.TrimSpace(req.Name),
		Start:          services.Location{Point: &d.Start},
		StartTime:      d.StartTime,
		DwellMinutes:   d.DwellMinutes,
		Fuel:           d.Fuel,
		DestinationIDs: req.DestinationIDs,
	}
	if out.Name == "" {
		out.Name = d.Name
	}
	if out.DwellMinutes <= 0 {
		out.DwellMinutes = services.DefaultDwellMinutes
	}

	if req.Start != nil {
		loc, err := toLocation(*req.Start)
		if err != nil {
			return services.PlanRouteRequest{}, fmt.Errorf("start: %w", err)
		}
		out.Start = loc
	}

	if s := strings.TrimSpace(req.StartTime); s != "" {
		t, err := domain.ParseClock(s)
		if err != nil {
			return services.PlanRouteRequest{}, err
		}
		out.StartTime = t
	}

	if req.DwellMinutes != nil {
		out.DwellMinutes = *req.DwellMinutes
	}

	if req.Fuel != nil {
		if req.Fuel.Price != nil {
			out.Fuel.FuelPrice = *req.Fuel.Price
		}
		if req.Fuel.AverageConsumption != nil {
			out.Fuel.AverageConsumption = *req.Fuel.AverageConsumption
		}
	}

	if req.Vehicle != nil {
		out.Vehicle = &domain.Vehicle{
			LicensePlate:    strings.TrimSpace(req.Vehicle.LicensePlate),
			FuelConsumption: req.Vehicle.FuelConsumption,
		}
	}

	out.Destinations = make([]services.DestinationInput, 0, len(req.Destinations))
	for _, dr := range req.Destinations {
		loc, err := toLocation(dr.LocationRequest)
		if err != nil {
			return services.PlanRouteRequest{}, fmt.Errorf("destination %q: %w", dr.ID, err)
		}
		out.Destinations = append(out.Destinations, services.DestinationInput{
			ID:       strings.TrimSpace(dr.ID),
			Name:     strings.TrimSpace(dr.Name),
			Location: loc,
		})
	}

	return out, nil
}

func toLocation(l dto.LocationRequest) (services.Location, error) {
	switch {
	case l.Lat != nil && l.Lng != nil:
		return services.Location{Point: &domain.GeoPoint{Lat: *l.Lat, Lng: *l.Lng}}, nil
	case l.Lat != nil || l.Lng != nil:
		return services.Location{}, fmt.Errorf("lat and lng must be given together: %w", domain.ErrInvalidInput)
	default:
		return services.Location{Address: strings.TrimSpace(l.Address)}, nil
	}
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	return fmt.Sprintf("field %s failed %q validation", fe.Namespace(), fe.Tag())
}
