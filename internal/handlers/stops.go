package handlers

import (
	"encoding/json"
	"net/http"

	"borla-backend/internal/database"
	"borla-backend/internal/models"
	"borla-backend/internal/services"
	"borla-backend/internal/websocket"
	"borla-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// AddStopHandler appends a stop to a route.
// POST /api/routes/{id}/stops
func AddStopHandler(db *sqlx.DB, policy services.RoutePolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "id")

		var in models.StopInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if in.OnDemandRequestID != nil && in.ScheduledRequestID != nil {
			utils.Error(w, http.StatusBadRequest, "a stop can reference at most one pickup request")
			return
		}

		stop, err := database.AddStop(db, routeID, in, policy)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.Created(w, stop)
	}
}

// StartStopHandler marks a stop as in progress.
// POST /api/stops/{id}/start
func StartStopHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		stop, err := database.StartStop(db, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.Success(w, stop)
	}
}

// CompleteStopHandler completes a stop with field evidence and reconciles
// the route.
// POST /api/stops/{id}/complete
func CompleteStopHandler(db *sqlx.DB, policy services.RoutePolicy, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var ev models.StopEvidence
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if ev.SegregationScore != nil && (*ev.SegregationScore < 0 || *ev.SegregationScore > 100) {
			utils.Error(w, http.StatusBadRequest, "segregation_score must be between 0 and 100")
			return
		}

		result, err := database.CompleteStop(db, id, ev, policy)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if hub != nil {
			hub.BroadcastRouteProgress(result.Stop.RouteID, result.Route.CompletionPercent, string(result.Route.Status))
		}
		utils.Success(w, result)
	}
}

type resolveStopRequest struct {
	Status        models.StopStatus `json:"status"`
	Notes         *string           `json:"notes,omitempty"`
	AdminOverride bool              `json:"admin_override,omitempty"`
}

// ResolveStopHandler marks a stop skipped or failed.
// PATCH /api/stops/{id}/status
func ResolveStopHandler(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req resolveStopRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		stop, err := database.ResolveStop(db, id, req.Status, req.Notes, req.AdminOverride)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if hub != nil {
			route, err := database.GetRouteWithStops(db, stop.RouteID)
			if err == nil {
				hub.BroadcastRouteProgress(route.ID, route.CompletionPercent, string(route.Status))
			}
		}
		utils.Success(w, stop)
	}
}
