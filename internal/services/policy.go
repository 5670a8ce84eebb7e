package services

import (
	"os"
	"strconv"

	"borla-backend/internal/models"
)

// RoutePolicy holds the tunable business parameters of the routing core.
// Values are policy, not law: deployments override them via environment
// variables without code changes.
type RoutePolicy struct {
	AverageSpeedKmh float64 // travel speed used for duration estimates

	// Default expected service minutes by client property type.
	ResidentialMinutes int
	CommercialMinutes  int
	OtherMinutes       int

	// Collector incentive on auto-close.
	PerStopRate       float64
	DistanceBonusRate float64 // per km

	// GPS proximity thresholds for request-linked completions.
	AcceptRadiusMeters float64 // at or under: accepted as completed
	RejectRadiusMeters float64 // over: rejected outright
}

// DefaultPolicy returns the stock parameters.
func DefaultPolicy() RoutePolicy {
	return RoutePolicy{
		AverageSpeedKmh:    40,
		ResidentialMinutes: 5,
		CommercialMinutes:  10,
		OtherMinutes:       7,
		PerStopRate:        10,
		DistanceBonusRate:  0.5,
		AcceptRadiusMeters: 100,
		RejectRadiusMeters: 300,
	}
}

// PolicyFromEnv returns the default policy with any environment overrides
// applied.
func PolicyFromEnv() RoutePolicy {
	p := DefaultPolicy()
	if v, err := strconv.ParseFloat(os.Getenv("AVERAGE_SPEED_KMH"), 64); err == nil && v > 0 {
		p.AverageSpeedKmh = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("INCENTIVE_PER_STOP"), 64); err == nil && v >= 0 {
		p.PerStopRate = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("INCENTIVE_PER_KM"), 64); err == nil && v >= 0 {
		p.DistanceBonusRate = v
	}
	return p
}

// ExpectedMinutes returns the default service time for a client property
// type.
func (p RoutePolicy) ExpectedMinutes(propertyType string) int {
	switch propertyType {
	case models.PropertyResidential:
		return p.ResidentialMinutes
	case models.PropertyCommercial:
		return p.CommercialMinutes
	default:
		return p.OtherMinutes
	}
}

// Incentive computes the collector bonus awarded when a route auto-closes.
func (p RoutePolicy) Incentive(completedStops int, distanceKm float64) float64 {
	return float64(completedStops)*p.PerStopRate + distanceKm*p.DistanceBonusRate
}
