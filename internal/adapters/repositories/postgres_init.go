package repositories

import (
	"context"
	"database/sql"
	"errors"
)

// Initialize the Postgres database schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	return execSchema(ctx, db, []string{
		`
	CREATE TABLE IF NOT EXISTS destinations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL
    );
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_routes_created_at
    ON routes(created_at DESC);
	`,
	})
}

// Populate the Postgres database with destination data from a JSON file.
func SeedPostgresFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	rows, err := LoadSeeds(jsonPath)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO destinations (id, name, lat, lng)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`
	return insertSeeds(ctx, db, query, rows)
}
