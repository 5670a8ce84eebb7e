package services

import "borla-backend/internal/geo"

// ProximityVerdict is the outcome of the GPS distance check applied when a
// request-linked stop is completed.
type ProximityVerdict int

const (
	// ProximityAccepted: collector was at or within the accept radius.
	ProximityAccepted ProximityVerdict = iota
	// ProximitySuspected: completion is accepted but flagged for review.
	ProximitySuspected
	// ProximityRejected: collector was beyond the hard limit.
	ProximityRejected
)

// EvaluateProximity applies the fraud/accuracy guard between the collector's
// last known position and the stop coordinate. At or under the accept radius
// the completion stands; between accept and reject radii it is flagged
// suspected; beyond the reject radius it is refused.
func EvaluateProximity(collector, target geo.Point, policy RoutePolicy) (ProximityVerdict, float64) {
	distanceM := geo.HaversineMeters(collector, target)
	switch {
	case distanceM > policy.RejectRadiusMeters:
		return ProximityRejected, distanceM
	case distanceM > policy.AcceptRadiusMeters:
		return ProximitySuspected, distanceM
	default:
		return ProximityAccepted, distanceM
	}
}
