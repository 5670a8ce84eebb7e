package database

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"borla-backend/internal/models"
	"borla-backend/internal/services"
)

func TestCompleteStopCountsCollection(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM route_stops WHERE id = \$1 FOR UPDATE`).
		WithArgs("stop-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "route_id", "status", "stop_order", "latitude", "longitude", "expected_minutes"}).
			AddRow("stop-1", "route-1", "in_progress", 1, 5.6037, -0.1870, 7))
	mock.ExpectQuery(`SELECT \* FROM routes WHERE id = \$1 FOR UPDATE`).
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "collector_id", "route_date", "status"}).
			AddRow("route-1", "col-1", "2026-09-01", "in_progress"))
	mock.ExpectExec(`UPDATE route_stops SET status = 'completed'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM collection_records WHERE route_stop_id = \$1`).
		WithArgs("stop-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`UPDATE collectors SET total_collections = total_collections \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM route_stops WHERE route_id = \$1 ORDER BY stop_order ASC`).
		WithArgs("route-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "status", "stop_order"}).
			AddRow("stop-1", "route-1", "completed", 1))
	mock.ExpectExec(`UPDATE routes SET completion_percent = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := CompleteStop(db, "stop-1", models.StopEvidence{}, services.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, models.StopStatusCompleted, result.Stop.Status)
	assert.False(t, result.Suspected)
	// ad-hoc stop with no resolvable client produces no evidence record
	assert.Nil(t, result.Record)
	assert.Equal(t, 100, result.Route.CompletionPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}
