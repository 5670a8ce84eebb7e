package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"borla-backend/internal/middleware"
	"borla-backend/internal/models"
	"borla-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func GetCollectors(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectors := []models.Collector{}
		if err := db.Select(&collectors, `SELECT * FROM collectors ORDER BY name ASC`); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to get collectors")
			return
		}
		utils.Success(w, collectors)
	}
}

func GetCollector(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var collector models.Collector
		if err := db.Get(&collector, `SELECT * FROM collectors WHERE id = $1`, id); err != nil {
			utils.Error(w, http.StatusNotFound, "Collector not found")
			return
		}
		utils.Success(w, collector)
	}
}

// UpdateCollectorLocation records the calling collector's current position.
// This position feeds the GPS proximity check on stop completion, and is
// also pushed to dashboard subscribers over the websocket hub.
func UpdateCollectorLocation(db *sqlx.DB, broadcast func(collectorID string, lat, lng float64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.UpdateLocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
			utils.Error(w, http.StatusBadRequest, "invalid coordinates")
			return
		}

		var collector models.Collector
		if err := db.Get(&collector, `SELECT * FROM collectors WHERE user_id = $1`, claims.UserID); err != nil {
			utils.Error(w, http.StatusNotFound, "Collector profile not found")
			return
		}

		now := time.Now().Unix()
		_, err := db.Exec(`
			UPDATE collectors SET last_known_latitude = $1, last_known_longitude = $2, updated_at = $3
			WHERE id = $4`, req.Latitude, req.Longitude, now, collector.ID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to update location")
			return
		}

		if broadcast != nil {
			broadcast(collector.ID, req.Latitude, req.Longitude)
		}

		utils.Success(w, map[string]interface{}{
			"collector_id": collector.ID,
			"latitude":     req.Latitude,
			"longitude":    req.Longitude,
			"updated_at":   now,
		})
	}
}
