package services

import (
	"errors"
	"fmt"

	"borla-backend/internal/models"
)

// ErrDuplicateRoute is returned when a non-cancelled route already exists
// for the same collector and service date. The uniqueness is enforced by a
// partial unique index, so concurrent creations surface exactly one success.
var ErrDuplicateRoute = errors.New("a route already exists for this collector on this date")

// ErrDirectoryUnavailable is returned when the client directory cannot be
// queried during auto stop generation. No partial route is left behind.
var ErrDirectoryUnavailable = errors.New("client directory unavailable")

// OutOfZoneError reports a stop coordinate that falls outside the zone
// boundary at route creation time.
type OutOfZoneError struct {
	ZoneCode  string
	Latitude  float64
	Longitude float64
}

func (e *OutOfZoneError) Error() string {
	return fmt.Sprintf("coordinate (%.6f, %.6f) is outside zone %s", e.Latitude, e.Longitude, e.ZoneCode)
}

// EmptyZoneError reports that auto stop generation found no pending service
// points inside the zone.
type EmptyZoneError struct {
	ZoneCode string
}

func (e *EmptyZoneError) Error() string {
	return fmt.Sprintf("no pending service points inside zone %s", e.ZoneCode)
}

// InvalidTransitionError reports an illegal route or stop status change.
type InvalidTransitionError struct {
	Entity string // "route" or "stop"
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Entity, e.From, e.To)
}

// UnfinishedStopsError reports an auto-close attempt while stops are still
// pending or in progress.
type UnfinishedStopsError struct {
	Remaining int
}

func (e *UnfinishedStopsError) Error() string {
	return fmt.Sprintf("route cannot be closed: %d stops still pending or in progress", e.Remaining)
}

// InvalidStateError reports an operation attempted on a stop that is not in
// the required state.
type InvalidStateError struct {
	Required models.StopStatus
	Actual   models.StopStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("stop must be %s to perform this action (currently %s)", e.Required, e.Actual)
}

// TooFarError reports a completion rejected because the collector's last
// known position was beyond the hard proximity limit.
type TooFarError struct {
	DistanceMeters float64
	LimitMeters    float64
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("completion rejected: collector is %.0fm from the stop (limit %.0fm)", e.DistanceMeters, e.LimitMeters)
}
