package api

import (
	"net/http"
	"school-route-service/internal/api/handlers"
	"school-route-service/internal/ports"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Destinations   ports.DestinationRepository
	Planner        handlers.RoutePlanner
	Defaults       handlers.PlanDefaults
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	destHandler := &handlers.DestinationHandler{Repo: deps.Destinations}
	routeHandler := handlers.NewRouteHandler(deps.Planner, deps.Defaults)

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/destinations", destHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/routes", routeHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/routes", routeHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/routes/{id}", routeHandler.Get).Methods(http.MethodGet)

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Location"},
	})

	return c.Handler(requestIDMiddleware(loggingMiddleware(logger)(r)))
}
