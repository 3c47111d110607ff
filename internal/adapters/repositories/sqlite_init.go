package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	createDestinationsQuery := `
	CREATE TABLE IF NOT EXISTS destinations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at_unix INTEGER NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon REAL NOT NULL,
        lat REAL NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_routes_created_at
    ON routes(created_at_unix DESC);
	`

	return execSchema(ctx, db, []string{
		createDestinationsQuery,
		createRoutesQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	})
}

func execSchema(ctx context.Context, db *sql.DB, statements []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type DestinationSeed struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// LoadSeeds reads and validates destination seeds from a JSON file.
func LoadSeeds(jsonPath string) ([]DestinationSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed destinations: read %q: %w", jsonPath, err)
	}

	var data []DestinationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed destinations: parse json: %w", err)
	}

	rows := make([]DestinationSeed, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return nil, fmt.Errorf("seed destinations: item at index %d: id cannot be empty", i+1)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("seed destinations: item at index %d: duplicate id %q", i+1, id)
		}
		seen[id] = struct{}{}

		if math.Abs(item.Lat) > 90 || math.Abs(item.Lng) > 180 {
			return nil, fmt.Errorf("seed destinations: item %q: coordinates out of range (%v, %v)", id, item.Lat, item.Lng)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = id
		}
		rows = append(rows, DestinationSeed{ID: id, Name: name, Lat: item.Lat, Lng: item.Lng})
	}

	return rows, nil
}

// Populate the SQLite database with destination data from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	rows, err := LoadSeeds(jsonPath)
	if err != nil {
		return err
	}

	query := `
	INSERT OR REPLACE INTO destinations (
		id,
		name,
		lat,
		lng
	)
	VALUES (?, ?, ?, ?);
	`
	return insertSeeds(ctx, db, query, rows)
}

func insertSeeds(ctx context.Context, db *sql.DB, query string, rows []DestinationSeed) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed destinations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed destinations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range rows {
		if _, err := stmt.ExecContext(ctx, d.ID, d.Name, d.Lat, d.Lng); err != nil {
			return fmt.Errorf("seed destinations: insert id=%q: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed destinations: commit tx: %w", err)
	}

	return nil
}
