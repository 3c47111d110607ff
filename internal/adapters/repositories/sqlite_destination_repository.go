package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"school-route-service/internal/domain"
	"strings"
)

// SQLite-backed implementation of the DestinationRepository port.
type SqliteDestinationRepository struct{ DB *sql.DB }

func NewSqliteDestinationRepository(db *sql.DB) *SqliteDestinationRepository {
	return &SqliteDestinationRepository{DB: db}
}

// Return all destinations stored in the database.
func (s *SqliteDestinationRepository) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite destination repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		lat,
		lng
	FROM destinations
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
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

// Return destinations for the given ids in request order.
func (s *SqliteDestinationRepository) GetDestinations(ctx context.Context, ids []string) ([]domain.Destination, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite destination repository: DB is nil")
	}

	uniq := uniqueIDs(ids)
	if len(uniq) == 0 {
		return []domain.Destination{}, nil
	}

	ph := make([]string, 0, len(uniq))
	args := make([]any, 0, len(uniq))
	for _, id := range uniq {
		ph = append(ph, "?")
		args = append(args, id)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
		id,
		name,
		lat,
		lng
	FROM destinations
	WHERE id IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
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
