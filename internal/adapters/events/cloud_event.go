package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	eventSource        = "school-route-service"
	specVersion        = "1.0"
	RouteOptimizedType = "route.optimized"
)

// CloudEvent is the JSON envelope written to the event topic.
type CloudEvent struct {
	SpecVersion string          `json:"specversion"`
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	Data        json.RawMessage `json:"data"`
}

func NewCloudEvent(eventType string, data any, now time.Time) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("marshal %s event data: %w", eventType, err)
	}
	return CloudEvent{
		SpecVersion: specVersion,
		ID:          uuid.NewString(),
		Source:      eventSource,
		Type:        eventType,
		Time:        now.UTC(),
		Data:        raw,
	}, nil
}

// ParseData decodes the event payload into v.
func (e CloudEvent) ParseData(v any) error {
	return json.Unmarshal(e.Data, v)
}

// RouteOptimizedEvent is a summary of a freshly planned route.
type RouteOptimizedEvent struct {
	RouteID              string   `json:"route_id"`
	Name                 string   `json:"name"`
	StopIDs              []string `json:"stop_ids"`
	TotalDistanceKm      float64  `json:"total_distance_km"`
	TotalDurationMinutes int      `json:"total_duration_minutes"`
	EstimatedFuelCost    float64  `json:"estimated_fuel_cost"`
	StartTime            string   `json:"start_time,omitempty"`
	EndTime              string   `json:"end_time,omitempty"`
	VehiclePlate         string   `json:"vehicle_plate,omitempty"`
}
