package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"school-route-service/internal/adapters/cache"
	"school-route-service/internal/adapters/events"
	"school-route-service/internal/adapters/geocode"
	"school-route-service/internal/adapters/repositories"
	"school-route-service/internal/api"
	"school-route-service/internal/api/handlers"
	"school-route-service/internal/config"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/db"
	"school-route-service/internal/platform/obs"
	"school-route-service/internal/ports"
	"school-route-service/internal/services"

	"go.uber.org/zap"
)

// storage groups the adapters backed by the selected database.
type storage struct {
	db           *sql.DB
	destinations ports.DestinationRepository
	routes       ports.RouteRepository
	geocodeCache ports.GeocodeCache
}

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obs.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer store.db.Close()

	planner := &services.RoutePlanner{
		Destinations: store.destinations,
		Routes:       store.routes,
		Builder:      services.NewRouteBuilder(),
		CacheTTL:     cfg.RouteCacheTTL,
		Logger:       logger,
	}

	if cfg.ORSAPIKey != "" {
		geocodeCache := cache.NewTieredGeocodeCache(
			cache.NewMemoryGeocodeCache(cache.DefaultGeocodeTTL),
			store.geocodeCache,
		)
		geocoder, err := geocode.NewORSGeocoder(cfg.ORSAPIKey,
			geocode.WithCountry(cfg.ORSCountry),
			geocode.WithCache(geocodeCache),
		)
		if err != nil {
			logger.Fatal("geocoder init failed", zap.Error(err))
		}
		planner.Geocoder = geocoder
	} else {
		logger.Warn("ORS_API_KEY not set; address lookups are disabled")
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis init failed", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		planner.Cache = cache.NewRedisRouteCache(client)
	}

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher, err := events.NewKafkaRoutePublisher(brokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Fatal("kafka publisher init failed", zap.Error(err))
		}
		defer func() { _ = publisher.Close() }()
		planner.Events = publisher
	}

	router := api.NewRouter(api.RouterDeps{
		Destinations: store.destinations,
		Planner:      planner,
		Defaults: handlers.PlanDefaults{
			Name:         services.DefaultRouteName,
			Start:        cfg.DefaultStart(),
			StartTime:    cfg.StartTime(),
			DwellMinutes: cfg.DwellMinutes,
			Fuel: domain.FuelSettings{
				FuelPrice:          cfg.FuelPrice,
				AverageConsumption: cfg.FuelConsumption,
			},
		},
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// openStorage uses Postgres when DATABASE_URL is set and a seeded local
// SQLite file otherwise.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
		logger.Info("using postgres storage")
		return &storage{
			db:           conn,
			destinations: repositories.NewPostgresDestinationRepository(conn),
			routes:       repositories.NewPostgresRouteRepository(conn),
			geocodeCache: cache.NewSQLGeocodeCache(conn),
		}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, cfg.SeedPath); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("using sqlite storage", zap.String("path", cfg.DBPath))

	return &storage{
		db:           conn,
		destinations: repositories.NewSqliteDestinationRepository(conn),
		routes:       repositories.NewSqliteRouteRepository(conn),
		geocodeCache: cache.NewSqliteGeocodeCache(conn),
	}, nil
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
