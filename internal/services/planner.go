package services

import (
	"sort"

	"borla-backend/internal/geo"
	"borla-backend/internal/models"

	"github.com/twpayne/go-geom"
)

// ServicePoint is one pending visit candidate returned by the client
// directory for a zone.
type ServicePoint struct {
	ClientID           string
	Location           geo.Point
	PropertyType       string
	OnDemandRequestID  *string
	ScheduledRequestID *string
}

// OrderByCentroid sorts service points by ascending distance from the zone
// center. This mirrors the dispatch heuristic in production: a rough
// nearest-from-center ordering, not a travelling-salesman solve. Ties break
// by client ID so the ordering is deterministic.
func OrderByCentroid(points []ServicePoint, centroid geo.Point) []ServicePoint {
	ordered := make([]ServicePoint, len(points))
	copy(ordered, points)
	sort.Slice(ordered, func(i, j int) bool {
		di := geo.HaversineKm(centroid, ordered[i].Location)
		dj := geo.HaversineKm(centroid, ordered[j].Location)
		if di != dj {
			return di < dj
		}
		return ordered[i].ClientID < ordered[j].ClientID
	})
	return ordered
}

// ValidateStopsInZone checks every caller-supplied stop coordinate against
// the zone boundary. The first offending coordinate is reported.
func ValidateStopsInZone(stops []models.StopInput, boundary *geom.Polygon, zoneCode string) error {
	for _, s := range stops {
		p := geo.Point{Latitude: s.Latitude, Longitude: s.Longitude}
		if !geo.PolygonContains(boundary, p) {
			return &OutOfZoneError{ZoneCode: zoneCode, Latitude: s.Latitude, Longitude: s.Longitude}
		}
	}
	return nil
}

// BuildStopsFromPoints turns ordered service points into route stops with
// 1-based contiguous ordering and policy-derived expected minutes.
func BuildStopsFromPoints(routeID string, points []ServicePoint, policy RoutePolicy) []models.RouteStop {
	stops := make([]models.RouteStop, 0, len(points))
	for i, pt := range points {
		clientID := pt.ClientID
		stops = append(stops, models.RouteStop{
			RouteID:            routeID,
			ClientID:           &clientID,
			OnDemandRequestID:  pt.OnDemandRequestID,
			ScheduledRequestID: pt.ScheduledRequestID,
			Latitude:           pt.Location.Latitude,
			Longitude:          pt.Location.Longitude,
			StopOrder:          i + 1,
			ExpectedMinutes:    policy.ExpectedMinutes(pt.PropertyType),
			Status:             models.StopStatusPending,
		})
	}
	return stops
}
