package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"borla-backend/internal/models"
	"borla-backend/internal/services"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestStartRouteCascadesPendingStops(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM routes WHERE id = \$1 FOR UPDATE`).
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow("route-1", "assigned"))
	mock.ExpectExec(`UPDATE routes SET status = 'in_progress'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE route_stops SET status = 'in_progress'`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`UPDATE ondemand_requests SET status = 'in_progress'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE scheduled_requests SET status = 'in_progress'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	route, err := StartRoute(db, "route-1")
	require.NoError(t, err)
	assert.Equal(t, models.RouteStatusInProgress, route.Status)
	require.NotNil(t, route.ActualStart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoCloseRouteAfterLastStopCompleted(t *testing.T) {
	db, mock := newMockDB(t)

	// Completing the last stop already derived status completed; the close
	// must still go through to stamp the end and settle the incentive.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM routes WHERE id = \$1 FOR UPDATE`).
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "status", "collector_id", "total_distance_km", "actual_start"}).
			AddRow("route-1", "completed", "col-1", 6.2, int64(1700000000)))
	mock.ExpectQuery(`SELECT \* FROM route_stops WHERE route_id = \$1 ORDER BY stop_order ASC`).
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "status", "stop_order"}).
			AddRow("stop-1", "route-1", "completed", 1).
			AddRow("stop-2", "route-1", "completed", 2))
	mock.ExpectExec(`UPDATE routes SET status = 'completed'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE collectors SET incentive_balance`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	summary, err := AutoCloseRoute(db, "route-1", services.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.StopsCompleted)
	assert.InDelta(t, 23.1, summary.IncentiveAwarded, 1e-9) // 2*10 + 6.2*0.5
	require.NotNil(t, summary.TimeSpentMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoCloseRouteAlreadyClosed(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM routes WHERE id = \$1 FOR UPDATE`).
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "actual_end"}).
			AddRow("route-1", "completed", int64(1700000100)))
	mock.ExpectRollback()

	_, err := AutoCloseRoute(db, "route-1", services.DefaultPolicy())
	var invalid *services.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoCloseRouteCancelled(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM routes WHERE id = \$1 FOR UPDATE`).
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow("route-1", "cancelled"))
	mock.ExpectRollback()

	_, err := AutoCloseRoute(db, "route-1", services.DefaultPolicy())
	var invalid *services.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
