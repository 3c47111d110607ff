package services

import (
	"school-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legs(start domain.GeoPoint, minutes ...int) []domain.RouteSegment {
	from := domain.AnchorEndpoint(domain.AnchorStart, start, 0)
	segments := make([]domain.RouteSegment, 0, len(minutes))
	for i, m := range minutes {
		var to domain.Endpoint
		if i == len(minutes)-1 {
			to = domain.AnchorEndpoint(domain.AnchorEnd, start, i+1)
		} else {
			to = domain.StopEndpoint(domain.RoutePoint{
				Destination: dest(string(rune('A'+i)), float64(i), float64(i)),
				Order:       i + 1,
			})
		}
		segments = append(segments, domain.RouteSegment{From: from, To: to, DurationMinutes: m})
		from = to
	}
	return segments
}

func TestScheduleStops(t *testing.T) {
	segments := legs(domain.GeoPoint{}, 10, 20, 5, 30)

	points := ScheduleStops(segments, domain.MustParseClock("08:00"), 15)
	require.Len(t, points, 3)

	want := [][2]string{
		{"08:10", "08:25"},
		{"08:45", "09:00"},
		{"09:05", "09:20"},
	}
	for i, p := range points {
		require.NotNil(t, p.EstimatedArrival)
		require.NotNil(t, p.EstimatedDeparture)
		assert.Equal(t, want[i][0], p.EstimatedArrival.String())
		assert.Equal(t, want[i][1], p.EstimatedDeparture.String())
		assert.Equal(t, i+1, p.Order)
	}
}

func TestScheduleStopsMonotonic(t *testing.T) {
	segments := legs(domain.GeoPoint{}, 3, 17, 0, 42, 9, 11)
	dwell := 12

	points := ScheduleStops(segments, domain.MustParseClock("06:30"), dwell)
	require.Len(t, points, len(segments)-1)

	for i, p := range points {
		arr, dep := int(*p.EstimatedArrival), int(*p.EstimatedDeparture)
		assert.Equal(t, dwell, dep-arr)
		if i+1 < len(points) {
			assert.LessOrEqual(t, dep, int(*points[i+1].EstimatedArrival))
		}
	}
}

func TestScheduleStopsWrapsMidnight(t *testing.T) {
	segments := legs(domain.GeoPoint{}, 20, 30, 10)

	points := ScheduleStops(segments, domain.MustParseClock("23:30"), 15)
	require.Len(t, points, 2)
	assert.Equal(t, "23:50", points[0].EstimatedArrival.String())
	assert.Equal(t, "00:05", points[0].EstimatedDeparture.String())
	assert.Equal(t, "00:35", points[1].EstimatedArrival.String())
	assert.Equal(t, "00:50", points[1].EstimatedDeparture.String())
}

func TestScheduleStopsEmpty(t *testing.T) {
	assert.Empty(t, ScheduleStops(nil, domain.MustParseClock("08:00"), 15))
}
