package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
)

// Postgres-backed implementation of the DestinationRepository port.
type PostgresDestinationRepository struct{ DB *sql.DB }

func NewPostgresDestinationRepository(db *sql.DB) *PostgresDestinationRepository {
	return &PostgresDestinationRepository{DB: db}
}

func (s *PostgresDestinationRepository) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	if s.DB == nil {
		return nil, errors.New("postgres destination repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, name, lat, lng
	FROM destinations
	ORDER BY id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list destinations: query destinations table: %w", err)
	}
	defer rows.Close()

	out, err := scanDestinations(rows)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return out, nil
}

func (s *PostgresDestinationRepository) GetDestinations(ctx context.Context, ids []string) ([]domain.Destination, error) {
	if s.DB == nil {
		return nil, errors.New("postgres destination repository: DB is nil")
	}

	uniq := uniqueIDs(ids)
	if len(uniq) == 0 {
		return []domain.Destination{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, name, lat, lng
	FROM destinations
	WHERE id = ANY($1::text[]);
	`, uniq)
	if err != nil {
		return nil, fmt.Errorf("get destinations: query destinations table: %w", err)
	}
	defer rows.Close()

	found, err := scanDestinations(rows)
	if err != nil {
		return nil, fmt.Errorf("get destinations: %w", err)
	}

	out, err := inRequestedOrder(uniq, found)
	if err != nil {
		return nil, fmt.Errorf("get destinations: %w", err)
	}
	return out, nil
}
