package services

import (
	"math"
	"testing"

	"borla-backend/internal/geo"

	"github.com/stretchr/testify/assert"
)

// pointAtMeters returns a point the given distance due north of origin.
// Along a meridian the haversine distance is exactly R*dLat, so the
// constructed distance is accurate to float precision.
func pointAtMeters(origin geo.Point, meters float64) geo.Point {
	dLat := (meters / 6371000.0) * (180.0 / math.Pi)
	return geo.Point{Latitude: origin.Latitude + dLat, Longitude: origin.Longitude}
}

func TestEvaluateProximity(t *testing.T) {
	policy := DefaultPolicy()
	stop := geo.Point{Latitude: 5.6037, Longitude: -0.1870}

	cases := []struct {
		name   string
		meters float64
		want   ProximityVerdict
	}{
		{"on the doorstep", 5, ProximityAccepted},
		{"just inside accept radius", 99, ProximityAccepted},
		{"between radii", 150, ProximitySuspected},
		{"just inside hard limit", 299, ProximitySuspected},
		{"just past hard limit", 301, ProximityRejected},
		{"far away", 2500, ProximityRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			collector := pointAtMeters(stop, tc.meters)
			verdict, dist := EvaluateProximity(collector, stop, policy)
			assert.Equal(t, tc.want, verdict)
			assert.InDelta(t, tc.meters, dist, 0.5)
		})
	}
}

// The thresholds are inclusive: a collector standing exactly on the accept
// radius is accepted, exactly on the hard limit is suspected, not rejected.
// The policy radii are pinned to the measured distance so the comparison is
// exact regardless of float rounding in the distance math.
func TestEvaluateProximityThresholdsInclusive(t *testing.T) {
	stop := geo.Point{Latitude: 5.6037, Longitude: -0.1870}

	atAccept := pointAtMeters(stop, 100)
	policy := DefaultPolicy()
	policy.AcceptRadiusMeters = geo.HaversineMeters(atAccept, stop)
	verdict, _ := EvaluateProximity(atAccept, stop, policy)
	assert.Equal(t, ProximityAccepted, verdict)

	atReject := pointAtMeters(stop, 300)
	policy = DefaultPolicy()
	policy.RejectRadiusMeters = geo.HaversineMeters(atReject, stop)
	verdict, _ = EvaluateProximity(atReject, stop, policy)
	assert.Equal(t, ProximitySuspected, verdict)
}

func TestEvaluateProximitySamePoint(t *testing.T) {
	p := geo.Point{Latitude: 5.6037, Longitude: -0.1870}
	verdict, dist := EvaluateProximity(p, p, DefaultPolicy())
	assert.Equal(t, ProximityAccepted, verdict)
	assert.Equal(t, 0.0, dist)
}
