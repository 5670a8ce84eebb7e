package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"borla-backend/internal/geo"
	"borla-backend/internal/models"
	"borla-backend/internal/services"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (code 23505).
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

// GetRoutes lists routes, optionally filtered by collector, date and status.
// Empty filter values are ignored.
func GetRoutes(db *sqlx.DB, collectorID, routeDate, status string) ([]models.Route, error) {
	routes := []models.Route{}
	query := `SELECT * FROM routes
	          WHERE ($1 = '' OR collector_id = $1)
	            AND ($2 = '' OR route_date = $2)
	            AND ($3 = '' OR status = $3)
	          ORDER BY route_date DESC, created_at DESC`

	if err := db.Select(&routes, query, collectorID, routeDate, status); err != nil {
		return nil, fmt.Errorf("failed to get routes: %w", err)
	}
	return routes, nil
}

// GetRouteWithStops retrieves a route and its stops in stop order.
func GetRouteWithStops(db *sqlx.DB, routeID string) (*models.RouteWithStops, error) {
	var route models.Route
	err := db.Get(&route, `SELECT * FROM routes WHERE id = $1`, routeID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("route not found: %s", routeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	stops := []models.RouteStop{}
	err = db.Select(&stops, `SELECT * FROM route_stops WHERE route_id = $1 ORDER BY stop_order ASC`, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get route stops: %w", err)
	}

	return &models.RouteWithStops{Route: route, Stops: stops}, nil
}

// CreateRouteWithStops creates a route and its stops in one transaction.
// When the request carries no stops the builder auto-populates them from the
// zone's clients, nearest to the zone center first. The duplicate-route rule
// (one live route per collector per date) is enforced by a partial unique
// index, so racing creations resolve to exactly one winner.
func CreateRouteWithStops(db *sqlx.DB, req models.CreateRouteRequest, policy services.RoutePolicy) (*models.RouteWithStops, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var zone models.Zone
	err = tx.Get(&zone, `SELECT * FROM zones WHERE id = $1`, req.ZoneID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("zone not found: %s", req.ZoneID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	boundary, err := geo.ParsePolygon(zone.Boundary)
	if err != nil {
		return nil, fmt.Errorf("zone %s has an invalid boundary: %w", zone.ZoneCode, err)
	}

	routeID := uuid.New().String()
	now := time.Now().Unix()

	var stops []models.RouteStop
	if len(req.Stops) > 0 {
		if err := services.ValidateStopsInZone(req.Stops, boundary, zone.ZoneCode); err != nil {
			return nil, err
		}
		stops = make([]models.RouteStop, 0, len(req.Stops))
		for i, in := range req.Stops {
			minutes := in.ExpectedMinutes
			if minutes <= 0 {
				minutes = policy.ExpectedMinutes(models.PropertyOther)
			}
			stops = append(stops, models.RouteStop{
				RouteID:            routeID,
				OnDemandRequestID:  in.OnDemandRequestID,
				ScheduledRequestID: in.ScheduledRequestID,
				Latitude:           in.Latitude,
				Longitude:          in.Longitude,
				StopOrder:          i + 1,
				ExpectedMinutes:    minutes,
				Status:             models.StopStatusPending,
				Notes:              in.Notes,
			})
		}
	} else {
		points, err := pendingServicePoints(tx, zone.ID, req.RouteDate)
		if err != nil {
			return nil, err
		}
		if len(points) == 0 {
			return nil, &services.EmptyZoneError{ZoneCode: zone.ZoneCode}
		}
		center := geo.Point{Latitude: zone.CenterLatitude, Longitude: zone.CenterLongitude}
		stops = services.BuildStopsFromPoints(routeID, services.OrderByCentroid(points, center), policy)
	}

	metrics := services.ComputeRouteMetrics(stops, policy.AverageSpeedKmh)

	status := models.RouteStatusAssigned
	if req.Draft {
		status = models.RouteStatusDraft
	}

	routeQuery := `
		INSERT INTO routes (
			id, company_id, zone_id, supervisor_id, collector_id, route_date,
			start_time, end_time, completion_percent, status,
			total_distance_km, estimated_duration_minutes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $11, $12, $13)
	`
	_, err = tx.Exec(routeQuery,
		routeID, req.CompanyID, req.ZoneID, req.SupervisorID, req.CollectorID, req.RouteDate,
		req.StartTime, req.EndTime, status,
		metrics.DistanceKm, metrics.Duration.Minutes(), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.ErrDuplicateRoute
		}
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	stopQuery := `
		INSERT INTO route_stops (
			id, route_id, ondemand_request_id, scheduled_request_id, client_id,
			latitude, longitude, stop_order, expected_minutes, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	for i := range stops {
		stops[i].ID = uuid.New().String()
		stops[i].CreatedAt = now
		stops[i].UpdatedAt = now
		s := &stops[i]

		_, err = tx.Exec(stopQuery,
			s.ID, routeID, s.OnDemandRequestID, s.ScheduledRequestID, s.ClientID,
			s.Latitude, s.Longitude, s.StopOrder, s.ExpectedMinutes, s.Status, s.Notes,
			now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create stop %d: %w", s.StopOrder, err)
		}

		if err := markRequestAssigned(tx, s, req.CollectorID, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	route := models.Route{
		ID:                       routeID,
		CompanyID:                req.CompanyID,
		ZoneID:                   req.ZoneID,
		SupervisorID:             req.SupervisorID,
		CollectorID:              req.CollectorID,
		RouteDate:                req.RouteDate,
		StartTime:                req.StartTime,
		EndTime:                  req.EndTime,
		Status:                   status,
		TotalDistanceKm:          metrics.DistanceKm,
		EstimatedDurationMinutes: metrics.Duration.Minutes(),
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	log.Printf("✅ Created route %s with %d stops (%.3f km)", routeID, len(stops), metrics.DistanceKm)
	return &models.RouteWithStops{Route: route, Stops: stops}, nil
}

// pendingServicePoints collects the zone's pickup candidates for a service
// date: open on-demand and scheduled requests first, then subscribed clients
// without an open request.
func pendingServicePoints(tx *sqlx.Tx, zoneID, routeDate string) ([]services.ServicePoint, error) {
	type pointRow struct {
		ClientID     string  `db:"client_id"`
		Latitude     float64 `db:"latitude"`
		Longitude    float64 `db:"longitude"`
		PropertyType string  `db:"property_type"`
		RequestID    *string `db:"request_id"`
	}

	points := []services.ServicePoint{}
	seen := map[string]bool{}

	odRows := []pointRow{}
	err := tx.Select(&odRows, `
		SELECT c.id AS client_id, r.latitude, r.longitude, c.property_type, r.id AS request_id
		FROM ondemand_requests r
		JOIN clients c ON c.id = r.client_id
		WHERE c.zone_id = $1 AND r.pickup_date = $2
		  AND r.status IN ('pending', 'confirmed')`, zoneID, routeDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrDirectoryUnavailable, err)
	}
	for _, r := range odRows {
		seen[r.ClientID] = true
		points = append(points, services.ServicePoint{
			ClientID:          r.ClientID,
			Location:          geo.Point{Latitude: r.Latitude, Longitude: r.Longitude},
			PropertyType:      r.PropertyType,
			OnDemandRequestID: r.RequestID,
		})
	}

	srRows := []pointRow{}
	err = tx.Select(&srRows, `
		SELECT c.id AS client_id, r.latitude, r.longitude, c.property_type, r.id AS request_id
		FROM scheduled_requests r
		JOIN clients c ON c.id = r.client_id
		WHERE c.zone_id = $1 AND r.pickup_date = $2
		  AND r.status IN ('pending', 'confirmed')`, zoneID, routeDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrDirectoryUnavailable, err)
	}
	for _, r := range srRows {
		if seen[r.ClientID] {
			continue
		}
		seen[r.ClientID] = true
		points = append(points, services.ServicePoint{
			ClientID:           r.ClientID,
			Location:           geo.Point{Latitude: r.Latitude, Longitude: r.Longitude},
			PropertyType:       r.PropertyType,
			ScheduledRequestID: r.RequestID,
		})
	}

	clientRows := []pointRow{}
	err = tx.Select(&clientRows, `
		SELECT id AS client_id, latitude, longitude, property_type, NULL AS request_id
		FROM clients WHERE zone_id = $1`, zoneID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrDirectoryUnavailable, err)
	}
	for _, r := range clientRows {
		if seen[r.ClientID] {
			continue
		}
		points = append(points, services.ServicePoint{
			ClientID:     r.ClientID,
			Location:     geo.Point{Latitude: r.Latitude, Longitude: r.Longitude},
			PropertyType: r.PropertyType,
		})
	}

	return points, nil
}

// markRequestAssigned moves a stop's linked pickup request to assigned and
// records the collector.
func markRequestAssigned(tx *sqlx.Tx, stop *models.RouteStop, collectorID string, now int64) error {
	if stop.OnDemandRequestID != nil {
		_, err := tx.Exec(`
			UPDATE ondemand_requests
			SET status = 'assigned', collector_id = $1, accepted_at = COALESCE(accepted_at, $2), updated_at = $2
			WHERE id = $3`, collectorID, now, *stop.OnDemandRequestID)
		if err != nil {
			return fmt.Errorf("failed to assign on-demand request: %w", err)
		}
	}
	if stop.ScheduledRequestID != nil {
		_, err := tx.Exec(`
			UPDATE scheduled_requests
			SET status = 'assigned', collector_id = $1, updated_at = $2
			WHERE id = $3`, collectorID, now, *stop.ScheduledRequestID)
		if err != nil {
			return fmt.Errorf("failed to assign scheduled request: %w", err)
		}
	}
	return nil
}

// StartRoute moves a route into in_progress, stamps the actual start and
// cascades the change to the pending stops and their linked pickup requests.
func StartRoute(db *sqlx.DB, routeID string) (*models.Route, error) {
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

	if err := services.CheckStartRoute(route.Status); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	_, err = tx.Exec(`
		UPDATE routes SET status = 'in_progress', actual_start = $1, updated_at = $1
		WHERE id = $2`, now, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to start route: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE route_stops SET status = 'in_progress', actual_start = COALESCE(actual_start, $1), updated_at = $1
		WHERE route_id = $2 AND status = 'pending'`, now, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to cascade start to stops: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE ondemand_requests SET status = 'in_progress', updated_at = $1
		WHERE id IN (SELECT ondemand_request_id FROM route_stops WHERE route_id = $2 AND ondemand_request_id IS NOT NULL)
		  AND status = 'assigned'`, now, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to cascade start to on-demand requests: %w", err)
	}
	_, err = tx.Exec(`
		UPDATE scheduled_requests SET status = 'in_progress', updated_at = $1
		WHERE id IN (SELECT scheduled_request_id FROM route_stops WHERE route_id = $2 AND scheduled_request_id IS NOT NULL)
		  AND status = 'assigned'`, now, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to cascade start to scheduled requests: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	route.Status = models.RouteStatusInProgress
	route.ActualStart = &now
	route.UpdatedAt = now
	log.Printf("▶️  Route %s started", routeID)
	return &route, nil
}

// UpdateRouteStatus applies an explicit status change after validating the
// transition. Cancelling a route releases its unfinished pickup requests
// back to pending so they can be replanned.
func UpdateRouteStatus(db *sqlx.DB, routeID string, newStatus models.RouteStatus) (*models.Route, error) {
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

	if err := services.CheckRouteTransition(route.Status, newStatus); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	_, err = tx.Exec(`UPDATE routes SET status = $1, updated_at = $2 WHERE id = $3`,
		newStatus, now, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to update route status: %w", err)
	}

	if newStatus == models.RouteStatusCancelled {
		_, err = tx.Exec(`
			UPDATE ondemand_requests SET status = 'pending', collector_id = NULL, updated_at = $1
			WHERE id IN (SELECT ondemand_request_id FROM route_stops WHERE route_id = $2 AND ondemand_request_id IS NOT NULL)
			  AND status IN ('assigned', 'in_progress')`, now, routeID)
		if err != nil {
			return nil, fmt.Errorf("failed to release on-demand requests: %w", err)
		}
		_, err = tx.Exec(`
			UPDATE scheduled_requests SET status = 'pending', collector_id = NULL, updated_at = $1
			WHERE id IN (SELECT scheduled_request_id FROM route_stops WHERE route_id = $2 AND scheduled_request_id IS NOT NULL)
			  AND status IN ('assigned', 'in_progress')`, now, routeID)
		if err != nil {
			return nil, fmt.Errorf("failed to release scheduled requests: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	route.Status = newStatus
	route.UpdatedAt = now
	return &route, nil
}

// AutoCloseRoute completes a route once every stop is resolved, stamps the
// actual end and credits the collector's incentive balance.
func AutoCloseRoute(db *sqlx.DB, routeID string, policy services.RoutePolicy) (*models.RouteCloseSummary, error) {
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

	if err := services.CheckCloseRoute(route.Status, route.ActualEnd != nil); err != nil {
		return nil, err
	}

	stops := []models.RouteStop{}
	err = tx.Select(&stops, `SELECT * FROM route_stops WHERE route_id = $1 ORDER BY stop_order ASC`, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get route stops: %w", err)
	}

	if err := services.CheckAutoClose(stops); err != nil {
		return nil, err
	}

	completed := 0
	for _, s := range stops {
		if s.Status == models.StopStatusCompleted {
			completed++
		}
	}

	now := time.Now().Unix()
	progress := services.DeriveRouteProgress(route.Status, stops)

	_, err = tx.Exec(`
		UPDATE routes SET status = 'completed', completion_percent = $1,
			actual_end = $2, updated_at = $2
		WHERE id = $3`, progress.CompletionPercent, now, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to close route: %w", err)
	}

	incentive := policy.Incentive(completed, route.TotalDistanceKm)
	_, err = tx.Exec(`
		UPDATE collectors SET incentive_balance = incentive_balance + $1, updated_at = $2
		WHERE id = $3`, incentive, now, route.CollectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to credit collector incentive: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	summary := &models.RouteCloseSummary{
		RouteID:          routeID,
		DistanceKm:       route.TotalDistanceKm,
		StopsCompleted:   completed,
		IncentiveAwarded: incentive,
	}
	if route.ActualStart != nil {
		minutes := float64(now-*route.ActualStart) / 60
		summary.TimeSpentMinutes = &minutes
	}

	log.Printf("🏁 Route %s closed: %d stops, GHS %.2f incentive", routeID, completed, incentive)
	return summary, nil
}

// reconcileRouteTx rederives a route's completion percent and status from
// its stops inside the caller's transaction. Must be called with the route
// row already locked. The actual end is not stamped here: a fully completed
// route stays open until AutoCloseRoute settles it.
func reconcileRouteTx(tx *sqlx.Tx, route *models.Route, now int64) (*services.RouteProgress, error) {
	stops := []models.RouteStop{}
	err := tx.Select(&stops, `SELECT * FROM route_stops WHERE route_id = $1 ORDER BY stop_order ASC`, route.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get route stops: %w", err)
	}

	progress := services.DeriveRouteProgress(route.Status, stops)

	query := `UPDATE routes SET completion_percent = $1, status = $2, updated_at = $3 WHERE id = $4`
	if _, err := tx.Exec(query, progress.CompletionPercent, progress.Status, now, route.ID); err != nil {
		return nil, fmt.Errorf("failed to reconcile route: %w", err)
	}

	return &progress, nil
}
