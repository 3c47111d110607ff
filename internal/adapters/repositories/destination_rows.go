package repositories

import (
	"database/sql"
	"fmt"
	"school-route-service/internal/domain"
	"strings"
)

func scanDestinations(rows *sql.Rows) ([]domain.Destination, error) {
	out := make([]domain.Destination, 0, 64)
	for rows.Next() {
		var d domain.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Coordinates.Lat, &d.Coordinates.Lng); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return out, nil
}

// uniqueIDs trims and deduplicates ids, keeping first occurrences.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// inRequestedOrder arranges found destinations in the order ids were requested.
func inRequestedOrder(ids []string, found []domain.Destination) ([]domain.Destination, error) {
	byID := make(map[string]domain.Destination, len(found))
	for _, d := range found {
		byID[d.ID] = d
	}

	out := make([]domain.Destination, 0, len(ids))
	missing := make([]string, 0)
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, d)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown destination ids %s: %w", strings.Join(missing, ", "), domain.ErrNotFound)
	}
	return out, nil
}
