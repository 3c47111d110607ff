package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
)

// SQLite-backed implementation of the RouteRepository port.
// Routes are stored whole as a JSON payload.
type SqliteRouteRepository struct{ DB *sql.DB }

func NewSqliteRouteRepository(db *sql.DB) *SqliteRouteRepository {
	return &SqliteRouteRepository{DB: db}
}

func (s *SqliteRouteRepository) SaveRoute(ctx context.Context, route *domain.OptimizedRoute) error {
	if s.DB == nil {
		return errors.New("sqlite route repository: DB is nil")
	}
	if route == nil || route.ID == "" {
		return errors.New("save route: route id must not be empty")
	}

	payload, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("save route: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO routes (
		id,
		name,
		payload,
		created_at_unix
	)
	VALUES (?, ?, ?, ?);
	`, route.ID, route.Name, string(payload), route.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save route %s: %w", route.ID, err)
	}

	return nil
}

func (s *SqliteRouteRepository) GetRoute(ctx context.Context, id string) (*domain.OptimizedRoute, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	var payload []byte
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM routes WHERE id = ?;`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route: query routes table: %w", err)
	}

	return decodeRoute(payload)
}

func (s *SqliteRouteRepository) ListRoutes(ctx context.Context, limit int) ([]*domain.OptimizedRoute, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite route repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT payload
	FROM routes
	ORDER BY created_at_unix DESC, id
	LIMIT ?;
	`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	out, err := scanRoutes(rows)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return out, nil
}
