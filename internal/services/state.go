package services

import (
	"math"

	"borla-backend/internal/models"
)

// stopTransitions enumerates the legal stop status changes. Terminal states
// have no outgoing edges; administrative overrides bypass this table and are
// flagged explicitly by callers.
var stopTransitions = map[models.StopStatus][]models.StopStatus{
	models.StopStatusPending: {
		models.StopStatusInProgress,
		models.StopStatusSkipped,
		models.StopStatusFailed,
	},
	models.StopStatusInProgress: {
		models.StopStatusCompleted,
		models.StopStatusSkipped,
		models.StopStatusFailed,
	},
}

// routeTransitions enumerates the legal route status changes. Cancellation
// is reachable from every non-terminal state.
var routeTransitions = map[models.RouteStatus][]models.RouteStatus{
	models.RouteStatusDraft: {
		models.RouteStatusAssigned,
		models.RouteStatusCancelled,
	},
	models.RouteStatusAssigned: {
		models.RouteStatusInProgress,
		models.RouteStatusCancelled,
	},
	models.RouteStatusInProgress: {
		models.RouteStatusCompleted,
		models.RouteStatusCancelled,
	},
}

// CheckStopTransition validates a stop status change. adminOverride unlocks
// terminal states for correction workflows and is never the normal path.
func CheckStopTransition(from, to models.StopStatus, adminOverride bool) error {
	if adminOverride {
		return nil
	}
	for _, allowed := range stopTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "stop", From: string(from), To: string(to)}
}

// CheckRouteTransition validates a route status change. Completed and
// cancelled are terminal without exception.
func CheckRouteTransition(from, to models.RouteStatus) error {
	for _, allowed := range routeTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "route", From: string(from), To: string(to)}
}

// RouteProgress is the derived completion state of a route.
type RouteProgress struct {
	CompletionPercent int
	Status            models.RouteStatus
}

// DeriveRouteProgress recomputes the route completion percent and status
// from its stops. Cancellation is sticky: a cancelled route keeps its status
// no matter what happens to the stops afterwards. With zero stops the
// percent is defined as 0.
func DeriveRouteProgress(current models.RouteStatus, stops []models.RouteStop) RouteProgress {
	total := len(stops)
	completed := 0
	for _, s := range stops {
		if s.Status == models.StopStatusCompleted {
			completed++
		}
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(100 * float64(completed) / float64(total)))
	}

	if current == models.RouteStatusCancelled {
		return RouteProgress{CompletionPercent: percent, Status: models.RouteStatusCancelled}
	}

	status := current
	switch {
	case total > 0 && percent == 100:
		status = models.RouteStatusCompleted
	case completed > 0:
		status = models.RouteStatusInProgress
	case current == models.RouteStatusDraft:
		status = models.RouteStatusDraft
	case current == models.RouteStatusCompleted:
		// A completed route with stops reopened administratively stays
		// completed; terminal states never regress here.
		status = models.RouteStatusCompleted
	default:
		status = models.RouteStatusAssigned
	}

	return RouteProgress{CompletionPercent: percent, Status: status}
}

// CheckStartRoute validates that a route can be started. Only assigned and
// draft routes can start.
func CheckStartRoute(status models.RouteStatus) error {
	if status == models.RouteStatusAssigned || status == models.RouteStatusDraft {
		return nil
	}
	return &InvalidTransitionError{Entity: "route", From: string(status), To: string(models.RouteStatusInProgress)}
}

// CheckCloseRoute validates that a route can be closed out. Cancelled routes
// and routes already closed (actual end stamped) are rejected. A route whose
// derived status reached completed when its last stop finished has not been
// closed yet and is still eligible.
func CheckCloseRoute(status models.RouteStatus, alreadyClosed bool) error {
	if status == models.RouteStatusCancelled || alreadyClosed {
		return &InvalidTransitionError{
			Entity: "route", From: string(status), To: string(models.RouteStatusCompleted),
		}
	}
	return nil
}

// CheckAutoClose validates that no stop remains pending or in progress.
func CheckAutoClose(stops []models.RouteStop) error {
	remaining := 0
	for _, s := range stops {
		if s.Status == models.StopStatusPending || s.Status == models.StopStatusInProgress {
			remaining++
		}
	}
	if remaining > 0 {
		return &UnfinishedStopsError{Remaining: remaining}
	}
	return nil
}
