package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"borla-backend/internal/geo"
	"borla-backend/internal/models"
	"borla-backend/internal/services"
)

// AddStop appends a stop to a live route. The route row is locked first so
// concurrent additions are serialized and stop_order stays contiguous. Route
// metrics are recomputed from the full stop sequence before commit.
func AddStop(db *sqlx.DB, routeID string, in models.StopInput, policy services.RoutePolicy) (*models.RouteStop, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var route models.Route
	err = tx.Get(&route, `SELECT * FROM routes WHERE id = $1 FOR UPDATE`, routeID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("route not found: %s", routeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	if route.Status.IsTerminal() {
		return nil, &services.InvalidTransitionError{
			Entity: "route", From: string(route.Status), To: string(route.Status),
		}
	}

	var zone models.Zone
	if err := tx.Get(&zone, `SELECT * FROM zones WHERE id = $1`, route.ZoneID); err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	boundary, err := geo.ParsePolygon(zone.Boundary)
	if err != nil {
		return nil, fmt.Errorf("zone %s has an invalid boundary: %w", zone.ZoneCode, err)
	}
	if err := services.ValidateStopsInZone([]models.StopInput{in}, boundary, zone.ZoneCode); err != nil {
		return nil, err
	}

	var nextOrder int
	err = tx.Get(&nextOrder, `SELECT COALESCE(MAX(stop_order), 0) + 1 FROM route_stops WHERE route_id = $1`, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next stop order: %w", err)
	}

	minutes := in.ExpectedMinutes
	if minutes <= 0 {
		minutes = policy.ExpectedMinutes(models.PropertyOther)
	}

	now := time.Now().Unix()
	stop := models.RouteStop{
		ID:                 uuid.New().String(),
		RouteID:            routeID,
		OnDemandRequestID:  in.OnDemandRequestID,
		ScheduledRequestID: in.ScheduledRequestID,
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		StopOrder:          nextOrder,
		ExpectedMinutes:    minutes,
		Status:             models.StopStatusPending,
		Notes:              in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err = tx.Exec(`
		INSERT INTO route_stops (
			id, route_id, ondemand_request_id, scheduled_request_id, client_id,
			latitude, longitude, stop_order, expected_minutes, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		stop.ID, routeID, stop.OnDemandRequestID, stop.ScheduledRequestID, stop.ClientID,
		stop.Latitude, stop.Longitude, stop.StopOrder, stop.ExpectedMinutes, stop.Status, stop.Notes,
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stop: %w", err)
	}

	if err := markRequestAssigned(tx, &stop, route.CollectorID, now); err != nil {
		return nil, err
	}

	// metrics cover the full sequence including the new stop
	stops := []models.RouteStop{}
	if err := tx.Select(&stops, `SELECT * FROM route_stops WHERE route_id = $1`, routeID); err != nil {
		return nil, fmt.Errorf("failed to get route stops: %w", err)
	}
	metrics := services.ComputeRouteMetrics(stops, policy.AverageSpeedKmh)

	_, err = tx.Exec(`
		UPDATE routes SET total_distance_km = $1, estimated_duration_minutes = $2, updated_at = $3
		WHERE id = $4`, metrics.DistanceKm, metrics.Duration.Minutes(), now, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to update route metrics: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &stop, nil
}

// StartStop moves a pending stop to in_progress and stamps the actual start.
func StartStop(db *sqlx.DB, stopID string) (*models.RouteStop, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stop, err := lockStop(tx, stopID)
	if err != nil {
		return nil, err
	}

	if err := services.CheckStopTransition(stop.Status, models.StopStatusInProgress, false); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	_, err = tx.Exec(`
		UPDATE route_stops SET status = 'in_progress', actual_start = $1, updated_at = $1
		WHERE id = $2`, now, stopID)
	if err != nil {
		return nil, fmt.Errorf("failed to start stop: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	stop.Status = models.StopStatusInProgress
	stop.ActualStart = &now
	stop.UpdatedAt = now
	return stop, nil
}

// StopCompletion is the result of completing a stop: the updated stop, the
// evidence record written for it and whether the completion was flagged for
// review because of GPS distance.
type StopCompletion struct {
	Stop      models.RouteStop         `json:"stop"`
	Record    *models.CollectionRecord `json:"record,omitempty"`
	Suspected bool                     `json:"suspected"`
	Route     services.RouteProgress   `json:"route"`
}

// CompleteStop finishes an in_progress stop and reconciles everything that
// hangs off it in one transaction: the evidence record, the linked pickup
// request, the client's segregation compliance, the collector's collection
// tally and the route's derived status. Either all of it lands or none of it
// does.
func CompleteStop(db *sqlx.DB, stopID string, ev models.StopEvidence, policy services.RoutePolicy) (*StopCompletion, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stop, err := lockStop(tx, stopID)
	if err != nil {
		return nil, err
	}

	if stop.Status != models.StopStatusInProgress {
		return nil, &services.InvalidStateError{
			Required: models.StopStatusInProgress, Actual: stop.Status,
		}
	}

	var route models.Route
	err = tx.Get(&route, `SELECT * FROM routes WHERE id = $1 FOR UPDATE`, stop.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	// GPS guard only applies to request-linked stops: ad-hoc stops carry no
	// client-facing completion promise.
	suspected := false
	if stop.Linked() {
		verdict, distance, err := collectorProximity(tx, route.CollectorID, stop, policy)
		if err != nil {
			return nil, err
		}
		switch verdict {
		case services.ProximityRejected:
			return nil, &services.TooFarError{DistanceMeters: distance, LimitMeters: policy.RejectRadiusMeters}
		case services.ProximitySuspected:
			suspected = true
		}
	}

	now := time.Now().Unix()
	_, err = tx.Exec(`
		UPDATE route_stops SET status = 'completed', actual_end = $1, updated_at = $1
		WHERE id = $2`, now, stopID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete stop: %w", err)
	}

	record, err := upsertStopRecord(tx, stop, &route, ev, now)
	if err != nil {
		return nil, err
	}

	if ev.SegregationScore != nil && stop.ClientID != nil {
		_, err = tx.Exec(`
			UPDATE clients
			SET segregation_compliance_percent = (segregation_compliance_percent + $1) / 2, updated_at = $2
			WHERE id = $3`, *ev.SegregationScore, now, *stop.ClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to update client compliance: %w", err)
		}
	}

	requestStatus := models.RequestStatusCompleted
	if suspected {
		requestStatus = models.RequestStatusSuspected
	}
	if err := markRequestCompleted(tx, stop, requestStatus, now); err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE collectors SET total_collections = total_collections + 1, updated_at = $1
		WHERE id = $2`, now, route.CollectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to update collector tally: %w", err)
	}

	progress, err := reconcileRouteTx(tx, &route, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	stop.Status = models.StopStatusCompleted
	stop.ActualEnd = &now
	stop.UpdatedAt = now

	if suspected {
		log.Printf("⚠️  Stop %s completed with a GPS distance flag", stopID)
	}
	return &StopCompletion{Stop: *stop, Record: record, Suspected: suspected, Route: *progress}, nil
}

// ResolveStop marks a stop skipped or failed. The linked pickup request is
// released back to pending so a later route can pick it up again, and the
// route's derived status is reconciled.
func ResolveStop(db *sqlx.DB, stopID string, to models.StopStatus, notes *string, adminOverride bool) (*models.RouteStop, error) {
	if to != models.StopStatusSkipped && to != models.StopStatusFailed {
		return nil, &services.InvalidTransitionError{Entity: "stop", From: "", To: string(to)}
	}

	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stop, err := lockStop(tx, stopID)
	if err != nil {
		return nil, err
	}

	if err := services.CheckStopTransition(stop.Status, to, adminOverride); err != nil {
		return nil, err
	}

	var route models.Route
	err = tx.Get(&route, `SELECT * FROM routes WHERE id = $1 FOR UPDATE`, stop.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	now := time.Now().Unix()
	_, err = tx.Exec(`
		UPDATE route_stops SET status = $1, notes = COALESCE($2, notes), actual_end = $3, updated_at = $3
		WHERE id = $4`, to, notes, now, stopID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stop: %w", err)
	}

	if err := releaseRequest(tx, stop, now); err != nil {
		return nil, err
	}

	if _, err := reconcileRouteTx(tx, &route, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	stop.Status = to
	if notes != nil {
		stop.Notes = notes
	}
	stop.ActualEnd = &now
	stop.UpdatedAt = now
	return stop, nil
}

func lockStop(tx *sqlx.Tx, stopID string) (*models.RouteStop, error) {
	var stop models.RouteStop
	err := tx.Get(&stop, `SELECT * FROM route_stops WHERE id = $1 FOR UPDATE`, stopID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stop not found: %s", stopID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stop: %w", err)
	}
	return &stop, nil
}

// collectorProximity evaluates the GPS distance rule using the collector's
// last reported position. A collector with no position on file passes: the
// guard exists to catch implausible positions, not missing ones.
func collectorProximity(tx *sqlx.Tx, collectorID string, stop *models.RouteStop, policy services.RoutePolicy) (services.ProximityVerdict, float64, error) {
	var collector models.Collector
	err := tx.Get(&collector, `SELECT * FROM collectors WHERE id = $1`, collectorID)
	if err != nil {
		return services.ProximityAccepted, 0, fmt.Errorf("failed to get collector: %w", err)
	}

	if collector.LastKnownLatitude == nil || collector.LastKnownLongitude == nil {
		return services.ProximityAccepted, 0, nil
	}

	verdict, distance := services.EvaluateProximity(
		geo.Point{Latitude: *collector.LastKnownLatitude, Longitude: *collector.LastKnownLongitude},
		geo.Point{Latitude: stop.Latitude, Longitude: stop.Longitude},
		policy,
	)
	return verdict, distance, nil
}

// upsertStopRecord finds the stop's evidence record or creates one, then
// merges the supplied evidence into it. A stop with no resolvable client
// produces no record: there is nobody to bill or score. Returns nil in that
// case.
func upsertStopRecord(tx *sqlx.Tx, stop *models.RouteStop, route *models.Route, ev models.StopEvidence, now int64) (*models.CollectionRecord, error) {
	var record models.CollectionRecord
	err := tx.Get(&record, `SELECT * FROM collection_records WHERE route_stop_id = $1`, stop.ID)
	if err == sql.ErrNoRows {
		clientID, cErr := resolveStopClient(tx, stop)
		if cErr != nil {
			return nil, cErr
		}
		if clientID == "" {
			return nil, nil
		}
		record = models.CollectionRecord{
			ID:             uuid.New().String(),
			ClientID:       clientID,
			CollectorID:    &route.CollectorID,
			RouteID:        &route.ID,
			RouteStopID:    &stop.ID,
			CollectionType: services.CollectionTypeForStop(stop),
			ScheduledDate:  route.RouteDate,
			WasteType:      "general",
			PaymentMethod:  "later",
			Status:         models.RecordStatusInProgress,
			CreatedAt:      now,
		}
		record.CollectionStart = stop.ActualStart
	} else if err != nil {
		return nil, fmt.Errorf("failed to get collection record: %w", err)
	}

	record.CollectionEnd = &now
	services.MergeEvidence(&record, ev, now)

	_, err = tx.Exec(`
		INSERT INTO collection_records (
			id, client_id, collector_id, route_id, route_stop_id, collection_type,
			scheduled_date, collection_start, collection_end, collected_at,
			bag_count, bin_size_liters, estimated_volume_liters, waste_type,
			payment_method, amount_paid, photo_before_url, photo_after_url,
			segregation_score, status, gps_latitude, gps_longitude, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
		ON CONFLICT (id) DO UPDATE SET
			collection_end = EXCLUDED.collection_end,
			collected_at = EXCLUDED.collected_at,
			bag_count = EXCLUDED.bag_count,
			bin_size_liters = EXCLUDED.bin_size_liters,
			estimated_volume_liters = EXCLUDED.estimated_volume_liters,
			waste_type = EXCLUDED.waste_type,
			payment_method = EXCLUDED.payment_method,
			amount_paid = EXCLUDED.amount_paid,
			photo_before_url = EXCLUDED.photo_before_url,
			photo_after_url = EXCLUDED.photo_after_url,
			segregation_score = EXCLUDED.segregation_score,
			status = EXCLUDED.status,
			gps_latitude = EXCLUDED.gps_latitude,
			gps_longitude = EXCLUDED.gps_longitude,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		record.ID, record.ClientID, record.CollectorID, record.RouteID, record.RouteStopID,
		record.CollectionType, record.ScheduledDate, record.CollectionStart, record.CollectionEnd,
		record.CollectedAt, record.BagCount, record.BinSizeLiters, record.EstimatedVolumeLiters,
		record.WasteType, record.PaymentMethod, record.AmountPaid, record.PhotoBeforeURL,
		record.PhotoAfterURL, record.SegregationScore, record.Status, record.GPSLatitude,
		record.GPSLongitude, record.Notes, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to write collection record: %w", err)
	}

	return &record, nil
}

// resolveStopClient returns the client the stop serves, falling back to the
// linked pickup request's client for caller-supplied stops.
func resolveStopClient(tx *sqlx.Tx, stop *models.RouteStop) (string, error) {
	if stop.ClientID != nil {
		return *stop.ClientID, nil
	}
	var clientID string
	var err error
	switch {
	case stop.OnDemandRequestID != nil:
		err = tx.Get(&clientID, `SELECT client_id FROM ondemand_requests WHERE id = $1`, *stop.OnDemandRequestID)
	case stop.ScheduledRequestID != nil:
		err = tx.Get(&clientID, `SELECT client_id FROM scheduled_requests WHERE id = $1`, *stop.ScheduledRequestID)
	default:
		return "", nil
	}
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve stop client: %w", err)
	}
	return clientID, nil
}

// markRequestCompleted moves a stop's linked pickup request to its final
// status and stamps completed_at.
func markRequestCompleted(tx *sqlx.Tx, stop *models.RouteStop, status models.RequestStatus, now int64) error {
	if stop.OnDemandRequestID != nil {
		_, err := tx.Exec(`
			UPDATE ondemand_requests SET status = $1, completed_at = $2, updated_at = $2
			WHERE id = $3`, status, now, *stop.OnDemandRequestID)
		if err != nil {
			return fmt.Errorf("failed to complete on-demand request: %w", err)
		}
	}
	if stop.ScheduledRequestID != nil {
		_, err := tx.Exec(`
			UPDATE scheduled_requests SET status = $1, completed_at = $2, updated_at = $2
			WHERE id = $3`, status, now, *stop.ScheduledRequestID)
		if err != nil {
			return fmt.Errorf("failed to complete scheduled request: %w", err)
		}
	}
	return nil
}

// releaseRequest puts a skipped or failed stop's pickup request back in the
// pending pool.
func releaseRequest(tx *sqlx.Tx, stop *models.RouteStop, now int64) error {
	if stop.OnDemandRequestID != nil {
		_, err := tx.Exec(`
			UPDATE ondemand_requests SET status = 'pending', collector_id = NULL, updated_at = $1
			WHERE id = $2 AND status IN ('assigned', 'in_progress')`, now, *stop.OnDemandRequestID)
		if err != nil {
			return fmt.Errorf("failed to release on-demand request: %w", err)
		}
	}
	if stop.ScheduledRequestID != nil {
		_, err := tx.Exec(`
			UPDATE scheduled_requests SET status = 'pending', collector_id = NULL, updated_at = $1
			WHERE id = $2 AND status IN ('assigned', 'in_progress')`, now, *stop.ScheduledRequestID)
		if err != nil {
			return fmt.Errorf("failed to release scheduled request: %w", err)
		}
	}
	return nil
}
