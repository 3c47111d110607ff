package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"school-route-service/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	AppEnv      string `mapstructure:"APP_ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBPath      string `mapstructure:"DB_PATH"`
	SeedPath    string `mapstructure:"SEED_PATH"`

	ORSAPIKey  string `mapstructure:"ORS_API_KEY"`
	ORSCountry string `mapstructure:"ORS_COUNTRY"`

	RedisURL      string        `mapstructure:"REDIS_URL"`
	RouteCacheTTL time.Duration `mapstructure:"ROUTE_CACHE_TTL"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	DefaultStartLat  float64 `mapstructure:"DEFAULT_START_LAT"`
	DefaultStartLng  float64 `mapstructure:"DEFAULT_START_LNG"`
	DefaultStartTime string  `mapstructure:"DEFAULT_START_TIME"`
	DwellMinutes     int     `mapstructure:"DWELL_MINUTES"`
	FuelPrice        float64 `mapstructure:"FUEL_PRICE"`
	FuelConsumption  float64 `mapstructure:"FUEL_CONSUMPTION"`
}

var defaults = map[string]any{
	"PORT":               "8080",
	"APP_ENV":            "production",
	"LOG_LEVEL":          "info",
	"DATABASE_URL":       "",
	"DB_PATH":            "data/app.db",
	"SEED_PATH":          "data/seeds/destinations.json",
	"ORS_API_KEY":        "",
	"ORS_COUNTRY":        "TR",
	"REDIS_URL":          "",
	"ROUTE_CACHE_TTL":    "1h",
	"KAFKA_BROKERS":      "",
	"KAFKA_TOPIC":        "route.events",
	"CORS_ORIGINS":       "*",
	"DEFAULT_START_LAT":  40.0781,
	"DEFAULT_START_LNG":  29.5135,
	"DEFAULT_START_TIME": "08:00",
	"DWELL_MINUTES":      15,
	"FUEL_PRICE":         32.0,
	"FUEL_CONSUMPTION":   25.0,
}

// Load reads an optional .env file, overlays the process environment and
// applies defaults for anything unset.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config: read env file: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.FuelPrice < 0 {
		return fmt.Errorf("config: FUEL_PRICE must not be negative, got %v", c.FuelPrice)
	}
	if c.FuelConsumption < 0 {
		return fmt.Errorf("config: FUEL_CONSUMPTION must not be negative, got %v", c.FuelConsumption)
	}
	if c.DwellMinutes <= 0 {
		return fmt.Errorf("config: DWELL_MINUTES must be positive, got %d", c.DwellMinutes)
	}
	if _, err := domain.ParseClock(c.DefaultStartTime); err != nil {
		return fmt.Errorf("config: DEFAULT_START_TIME: %w", err)
	}
	if c.DefaultStartLat < -90 || c.DefaultStartLat > 90 || c.DefaultStartLng < -180 || c.DefaultStartLng > 180 {
		return fmt.Errorf("config: default start (%v, %v) out of range", c.DefaultStartLat, c.DefaultStartLng)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

func (c *Config) StartTime() domain.ClockTime {
	return domain.MustParseClock(c.DefaultStartTime)
}

func (c *Config) DefaultStart() domain.GeoPoint {
	return domain.GeoPoint{Lat: c.DefaultStartLat, Lng: c.DefaultStartLng}
}

func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
