package services

import (
	"testing"
	"time"

	"borla-backend/internal/geo"
	"borla-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRouteMetricsNoStops(t *testing.T) {
	m := ComputeRouteMetrics(nil, 40)
	assert.Equal(t, 0.0, m.DistanceKm)
	assert.Equal(t, time.Duration(0), m.Duration)
}

func TestComputeRouteMetricsSingleStop(t *testing.T) {
	stops := []models.RouteStop{
		{StopOrder: 1, Latitude: 5.6037, Longitude: -0.1870, ExpectedMinutes: 10},
	}
	m := ComputeRouteMetrics(stops, 40)
	assert.Equal(t, 0.0, m.DistanceKm)
	assert.Equal(t, 10*time.Minute, m.Duration)
}

func TestComputeRouteMetricsTwoStops(t *testing.T) {
	// Two stops roughly 2 km apart along a meridian.
	a := geo.Point{Latitude: 5.6000, Longitude: -0.1870}
	b := geo.Point{Latitude: 5.6180, Longitude: -0.1870}
	stops := []models.RouteStop{
		{StopOrder: 1, Latitude: a.Latitude, Longitude: a.Longitude, ExpectedMinutes: 5},
		{StopOrder: 2, Latitude: b.Latitude, Longitude: b.Longitude, ExpectedMinutes: 5},
	}

	m := ComputeRouteMetrics(stops, 40)

	wantKm := roundKm(geo.HaversineKm(a, b))
	require.InDelta(t, 2.0, wantKm, 0.1)
	assert.Equal(t, wantKm, m.DistanceKm)

	// travel at 40 km/h plus 10 minutes of service time
	wantMinutes := (wantKm/40)*60 + 10
	assert.InDelta(t, wantMinutes, m.Duration.Minutes(), 0.01)
}

func TestComputeRouteMetricsWalksStopOrder(t *testing.T) {
	// Stops supplied out of order must be walked in stop_order, not slice
	// order. A-B-C in a line is shorter than A-C-B.
	stops := []models.RouteStop{
		{StopOrder: 3, Latitude: 5.62, Longitude: -0.1870, ExpectedMinutes: 5},
		{StopOrder: 1, Latitude: 5.60, Longitude: -0.1870, ExpectedMinutes: 5},
		{StopOrder: 2, Latitude: 5.61, Longitude: -0.1870, ExpectedMinutes: 5},
	}

	m := ComputeRouteMetrics(stops, 40)

	inLine := geo.HaversineKm(
		geo.Point{Latitude: 5.60, Longitude: -0.1870},
		geo.Point{Latitude: 5.62, Longitude: -0.1870},
	)
	assert.InDelta(t, roundKm(inLine), m.DistanceKm, 0.001)
}

func TestComputeRouteMetricsIdempotent(t *testing.T) {
	stops := []models.RouteStop{
		{StopOrder: 1, Latitude: 5.6037, Longitude: -0.1870, ExpectedMinutes: 5},
		{StopOrder: 2, Latitude: 5.6100, Longitude: -0.1900, ExpectedMinutes: 10},
		{StopOrder: 3, Latitude: 5.6200, Longitude: -0.1850, ExpectedMinutes: 7},
	}

	first := ComputeRouteMetrics(stops, 40)
	second := ComputeRouteMetrics(stops, 40)
	assert.Equal(t, first, second)
}
