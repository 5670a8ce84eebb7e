package services

import (
	"testing"

	"borla-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStopTransition(t *testing.T) {
	assert.NoError(t, CheckStopTransition(models.StopStatusPending, models.StopStatusInProgress, false))
	assert.NoError(t, CheckStopTransition(models.StopStatusPending, models.StopStatusSkipped, false))
	assert.NoError(t, CheckStopTransition(models.StopStatusInProgress, models.StopStatusCompleted, false))
	assert.NoError(t, CheckStopTransition(models.StopStatusInProgress, models.StopStatusFailed, false))

	// pending cannot jump straight to completed
	err := CheckStopTransition(models.StopStatusPending, models.StopStatusCompleted, false)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "stop", invalid.Entity)

	// terminal states are frozen
	assert.Error(t, CheckStopTransition(models.StopStatusCompleted, models.StopStatusInProgress, false))
	assert.Error(t, CheckStopTransition(models.StopStatusSkipped, models.StopStatusPending, false))
	assert.Error(t, CheckStopTransition(models.StopStatusFailed, models.StopStatusCompleted, false))

	// unless the admin override is set
	assert.NoError(t, CheckStopTransition(models.StopStatusCompleted, models.StopStatusPending, true))
}

func TestCheckRouteTransition(t *testing.T) {
	assert.NoError(t, CheckRouteTransition(models.RouteStatusDraft, models.RouteStatusAssigned))
	assert.NoError(t, CheckRouteTransition(models.RouteStatusAssigned, models.RouteStatusInProgress))
	assert.NoError(t, CheckRouteTransition(models.RouteStatusInProgress, models.RouteStatusCompleted))
	assert.NoError(t, CheckRouteTransition(models.RouteStatusAssigned, models.RouteStatusCancelled))

	assert.Error(t, CheckRouteTransition(models.RouteStatusCompleted, models.RouteStatusInProgress))
	assert.Error(t, CheckRouteTransition(models.RouteStatusCancelled, models.RouteStatusAssigned))
	assert.Error(t, CheckRouteTransition(models.RouteStatusDraft, models.RouteStatusInProgress))
}

func stopsWith(statuses ...models.StopStatus) []models.RouteStop {
	stops := make([]models.RouteStop, len(statuses))
	for i, s := range statuses {
		stops[i] = models.RouteStop{StopOrder: i + 1, Status: s}
	}
	return stops
}

func TestDeriveRouteProgress(t *testing.T) {
	// 3 of 7 completed rounds to 43 percent
	p := DeriveRouteProgress(models.RouteStatusInProgress, stopsWith(
		models.StopStatusCompleted, models.StopStatusCompleted, models.StopStatusCompleted,
		models.StopStatusPending, models.StopStatusPending, models.StopStatusSkipped, models.StopStatusFailed,
	))
	assert.Equal(t, 43, p.CompletionPercent)
	assert.Equal(t, models.RouteStatusInProgress, p.Status)

	// all completed flips the route to completed
	p = DeriveRouteProgress(models.RouteStatusInProgress, stopsWith(
		models.StopStatusCompleted, models.StopStatusCompleted,
	))
	assert.Equal(t, 100, p.CompletionPercent)
	assert.Equal(t, models.RouteStatusCompleted, p.Status)

	// first completion moves an assigned route into in_progress
	p = DeriveRouteProgress(models.RouteStatusAssigned, stopsWith(
		models.StopStatusCompleted, models.StopStatusPending,
	))
	assert.Equal(t, 50, p.CompletionPercent)
	assert.Equal(t, models.RouteStatusInProgress, p.Status)
}

func TestDeriveRouteProgressZeroStops(t *testing.T) {
	p := DeriveRouteProgress(models.RouteStatusAssigned, nil)
	assert.Equal(t, 0, p.CompletionPercent)
	assert.Equal(t, models.RouteStatusAssigned, p.Status)
}

func TestDeriveRouteProgressCancelledIsSticky(t *testing.T) {
	p := DeriveRouteProgress(models.RouteStatusCancelled, stopsWith(
		models.StopStatusCompleted, models.StopStatusCompleted,
	))
	assert.Equal(t, models.RouteStatusCancelled, p.Status)
	assert.Equal(t, 100, p.CompletionPercent)
}

func TestDeriveRouteProgressDraftStaysDraft(t *testing.T) {
	p := DeriveRouteProgress(models.RouteStatusDraft, stopsWith(
		models.StopStatusPending, models.StopStatusPending,
	))
	assert.Equal(t, models.RouteStatusDraft, p.Status)
}

func TestCheckStartRoute(t *testing.T) {
	assert.NoError(t, CheckStartRoute(models.RouteStatusAssigned))
	assert.NoError(t, CheckStartRoute(models.RouteStatusDraft))
	assert.Error(t, CheckStartRoute(models.RouteStatusInProgress))
	assert.Error(t, CheckStartRoute(models.RouteStatusCompleted))
	assert.Error(t, CheckStartRoute(models.RouteStatusCancelled))
}

func TestCheckCloseRoute(t *testing.T) {
	assert.NoError(t, CheckCloseRoute(models.RouteStatusInProgress, false))

	// completing the last stop derives completed before close is requested;
	// the route must still be closable to settle the incentive
	p := DeriveRouteProgress(models.RouteStatusInProgress, stopsWith(
		models.StopStatusCompleted, models.StopStatusCompleted,
	))
	require.Equal(t, models.RouteStatusCompleted, p.Status)
	assert.NoError(t, CheckCloseRoute(p.Status, false))

	// but only once
	assert.Error(t, CheckCloseRoute(models.RouteStatusCompleted, true))

	// and never for a cancelled route
	assert.Error(t, CheckCloseRoute(models.RouteStatusCancelled, false))
}

func TestCheckAutoClose(t *testing.T) {
	// skipped and failed count as resolved
	assert.NoError(t, CheckAutoClose(stopsWith(
		models.StopStatusCompleted, models.StopStatusSkipped, models.StopStatusFailed,
	)))

	err := CheckAutoClose(stopsWith(
		models.StopStatusCompleted, models.StopStatusPending, models.StopStatusInProgress,
	))
	var unfinished *UnfinishedStopsError
	require.ErrorAs(t, err, &unfinished)
	assert.Equal(t, 2, unfinished.Remaining)
}
