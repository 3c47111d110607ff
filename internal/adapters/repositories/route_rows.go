package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"school-route-service/internal/domain"
)

// DefaultListLimit caps ListRoutes when the caller passes a non-positive limit.
const DefaultListLimit = 50

func encodeRoute(route *domain.OptimizedRoute) ([]byte, error) {
	b, err := json.Marshal(route)
	if err != nil {
		return nil, fmt.Errorf("encode route %s: %w", route.ID, err)
	}
	return b, nil
}

func decodeRoute(payload []byte) (*domain.OptimizedRoute, error) {
	var route domain.OptimizedRoute
	if err := json.Unmarshal(payload, &route); err != nil {
		return nil, fmt.Errorf("decode route payload: %w", err)
	}
	return &route, nil
}

func scanRoutes(rows *sql.Rows) ([]*domain.OptimizedRoute, error) {
	out := make([]*domain.OptimizedRoute, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		route, err := decodeRoute(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return out, nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
