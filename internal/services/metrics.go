package services

import (
	"math"
	"sort"
	"time"

	"borla-backend/internal/geo"
	"borla-backend/internal/models"
)

// RouteMetrics is the derived analytics pair for a route.
type RouteMetrics struct {
	DistanceKm float64
	Duration   time.Duration
}

// ComputeRouteMetrics derives total distance and estimated duration from the
// stop sequence. Stops are walked in stop_order; with fewer than two stops
// the distance is zero and the duration is just the service time. The result
// depends only on the input, so recomputing with unchanged stops yields
// identical output.
func ComputeRouteMetrics(stops []models.RouteStop, avgSpeedKmh float64) RouteMetrics {
	ordered := make([]models.RouteStop, len(stops))
	copy(ordered, stops)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].StopOrder < ordered[j].StopOrder })

	totalStopMinutes := 0
	for _, s := range ordered {
		totalStopMinutes += s.ExpectedMinutes
	}

	if len(ordered) < 2 {
		return RouteMetrics{
			DistanceKm: 0,
			Duration:   time.Duration(totalStopMinutes) * time.Minute,
		}
	}

	totalDistance := 0.0
	for i := 0; i < len(ordered)-1; i++ {
		totalDistance += geo.HaversineKm(
			geo.Point{Latitude: ordered[i].Latitude, Longitude: ordered[i].Longitude},
			geo.Point{Latitude: ordered[i+1].Latitude, Longitude: ordered[i+1].Longitude},
		)
	}
	totalDistance = roundKm(totalDistance)

	travelMinutes := (totalDistance / avgSpeedKmh) * 60
	totalMinutes := travelMinutes + float64(totalStopMinutes)

	return RouteMetrics{
		DistanceKm: totalDistance,
		Duration:   time.Duration(totalMinutes * float64(time.Minute)),
	}
}

// roundKm rounds a distance to 3 decimal places (meter precision).
func roundKm(km float64) float64 {
	return math.Round(km*1000) / 1000
}
