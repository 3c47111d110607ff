package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"school-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the RouteRepository port (JSONB payload).
type PostgresRouteRepository struct{ DB *sql.DB }

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

func (s *PostgresRouteRepository) SaveRoute(ctx context.Context, route *domain.OptimizedRoute) (err error) {
	defer obs.Time(ctx, "routes.pg.SaveRoute")(&err)

	if s.DB == nil {
		return errors.New("postgres route repository: DB is nil")
	}
	if route == nil || route.ID == "" {
		return errors.New("save route: route id must not be empty")
	}

	payload, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("save route: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO routes (id, name, payload, created_at)
	VALUES ($1, $2, $3::jsonb, $4)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		payload = EXCLUDED.payload,
		created_at = EXCLUDED.created_at;
	`, route.ID, route.Name, string(payload), route.CreatedAt)
	if err != nil {
		return fmt.Errorf("save route %s: %w", route.ID, err)
	}

	return nil
}

func (s *PostgresRouteRepository) GetRoute(ctx context.Context, id string) (*domain.OptimizedRoute, error) {
	if s.DB == nil {
		return nil, errors.New("postgres route repository: DB is nil")
	}

	var payload []byte
	err := s.DB.QueryRowContext(ctx, `SELECT payload FROM routes WHERE id = $1;`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route: query routes table: %w", err)
	}

	return decodeRoute(payload)
}

func (s *PostgresRouteRepository) ListRoutes(ctx context.Context, limit int) ([]*domain.OptimizedRoute, error) {
	if s.DB == nil {
		return nil, errors.New("postgres route repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT payload
	FROM routes
	ORDER BY created_at DESC, id
	LIMIT $1;
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
