package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"borla-backend/internal/database"
	"borla-backend/internal/models"
	"borla-backend/internal/services"
	"borla-backend/internal/websocket"
	"borla-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// CreateRoute builds a route for a collector. With no stops in the body the
// builder fills the route from the zone's pending pickups and clients.
func CreateRoute(db *sqlx.DB, policy services.RoutePolicy, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.CompanyID == "" || req.ZoneID == "" || req.SupervisorID == "" ||
			req.CollectorID == "" || req.RouteDate == "" {
			utils.Error(w, http.StatusBadRequest, "company_id, zone_id, supervisor_id, collector_id and route_date are required")
			return
		}

		result, err := database.CreateRouteWithStops(db, req, policy)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if fcm != nil && result.Status == models.RouteStatusAssigned {
			go notifyRouteAssigned(db, fcm, result)
		}

		utils.Created(w, result)
	}
}

// notifyRouteAssigned pushes an FCM notification to the assigned collector.
// Best effort: a push failure never fails the route creation.
func notifyRouteAssigned(db *sqlx.DB, fcm *services.FCMService, route *models.RouteWithStops) {
	tokens, err := collectorTokens(db, route.CollectorID)
	if err != nil {
		log.Printf("⚠️ Could not load FCM tokens for collector %s: %v", route.CollectorID, err)
		return
	}
	for _, token := range tokens {
		if err := fcm.SendRouteAssignedNotification(token, route.ID, len(route.Stops)); err != nil {
			log.Printf("⚠️ FCM push failed: %v", err)
		}
	}
}

// collectorTokens returns the FCM device tokens registered for a collector's
// user account.
func collectorTokens(db *sqlx.DB, collectorID string) ([]string, error) {
	tokens := []string{}
	err := db.Select(&tokens, `
		SELECT t.token FROM fcm_tokens t
		JOIN collectors c ON c.user_id = t.user_id
		WHERE c.id = $1`, collectorID)
	return tokens, err
}

func GetRoutesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		routes, err := database.GetRoutes(db, q.Get("collector_id"), q.Get("route_date"), q.Get("status"))
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to get routes")
			return
		}
		utils.Success(w, routes)
	}
}

func GetRouteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		route, err := database.GetRouteWithStops(db, id)
		if err != nil {
			utils.Error(w, http.StatusNotFound, "Route not found")
			return
		}
		utils.Success(w, route)
	}
}

func StartRouteHandler(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		route, err := database.StartRoute(db, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if hub != nil {
			hub.BroadcastRouteProgress(route.ID, route.CompletionPercent, string(route.Status))
		}
		utils.Success(w, route)
	}
}

func UpdateRouteStatusHandler(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req models.UpdateRouteStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		route, err := database.UpdateRouteStatus(db, id, req.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if hub != nil {
			hub.BroadcastRouteProgress(route.ID, route.CompletionPercent, string(route.Status))
		}
		utils.Success(w, route)
	}
}

// AutoCloseRouteHandler completes a route once every stop is resolved and
// credits the collector's incentive.
func AutoCloseRouteHandler(db *sqlx.DB, policy services.RoutePolicy, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var route models.Route
		if err := db.Get(&route, `SELECT * FROM routes WHERE id = $1`, id); err != nil {
			utils.Error(w, http.StatusNotFound, "Route not found")
			return
		}

		summary, err := database.AutoCloseRoute(db, id, policy)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if hub != nil {
			hub.BroadcastRouteProgress(id, 100, string(models.RouteStatusCompleted))
		}
		if fcm != nil {
			go func() {
				tokens, err := collectorTokens(db, route.CollectorID)
				if err != nil {
					return
				}
				for _, token := range tokens {
					if err := fcm.SendRouteClosedNotification(token, id, summary.IncentiveAwarded); err != nil {
						log.Printf("⚠️ FCM push failed: %v", err)
					}
				}
			}()
		}

		utils.Success(w, summary)
	}
}
