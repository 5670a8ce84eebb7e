package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"borla-backend/internal/geo"
	"borla-backend/internal/models"
	"borla-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func CreateZone(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateZoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.ZoneCode == "" || req.Name == "" || req.Boundary == "" {
			utils.Error(w, http.StatusBadRequest, "zone_code, name and boundary are required")
			return
		}

		polygon, err := geo.ParsePolygon(req.Boundary)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "boundary must be a valid GeoJSON Polygon")
			return
		}

		// Derive the center from the boundary unless the caller supplied one.
		center := geo.PolygonCentroid(polygon)
		if req.CenterLatitude != nil && req.CenterLongitude != nil {
			center = geo.Point{Latitude: *req.CenterLatitude, Longitude: *req.CenterLongitude}
		}

		multiplier := 1.0
		if req.ServiceFeeMultiplier != nil && *req.ServiceFeeMultiplier > 0 {
			multiplier = *req.ServiceFeeMultiplier
		}
		zoneType := req.ZoneType
		if zoneType == "" {
			zoneType = "residential"
		}

		now := time.Now().Unix()
		zone := models.Zone{
			ID:                   uuid.New().String(),
			ZoneCode:             req.ZoneCode,
			Name:                 req.Name,
			City:                 req.City,
			ZoneType:             zoneType,
			Boundary:             req.Boundary,
			CenterLatitude:       center.Latitude,
			CenterLongitude:      center.Longitude,
			ServiceFeeMultiplier: multiplier,
			IsActive:             true,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if req.Description != "" {
			zone.Description = &req.Description
		}

		_, err = db.Exec(`
			INSERT INTO zones (
				id, zone_code, name, description, city, zone_type, boundary,
				center_latitude, center_longitude, service_fee_multiplier, is_active,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, $11, $12)`,
			zone.ID, zone.ZoneCode, zone.Name, zone.Description, zone.City, zone.ZoneType,
			zone.Boundary, zone.CenterLatitude, zone.CenterLongitude, zone.ServiceFeeMultiplier,
			now, now)
		if err != nil {
			utils.Error(w, http.StatusConflict, "Failed to create zone (code may already exist)")
			return
		}

		log.Printf("✅ Created zone %s (%s)", zone.ZoneCode, zone.Name)
		utils.Created(w, zone)
	}
}

func GetZones(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zones := []models.Zone{}
		if err := db.Select(&zones, `SELECT * FROM zones ORDER BY zone_code ASC`); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to get zones")
			return
		}
		utils.Success(w, zones)
	}
}

func GetZone(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var zone models.Zone
		if err := db.Get(&zone, `SELECT * FROM zones WHERE id = $1`, id); err != nil {
			utils.Error(w, http.StatusNotFound, "Zone not found")
			return
		}
		utils.Success(w, zone)
	}
}

func UpdateZone(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req models.UpdateZoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var zone models.Zone
		if err := db.Get(&zone, `SELECT * FROM zones WHERE id = $1`, id); err != nil {
			utils.Error(w, http.StatusNotFound, "Zone not found")
			return
		}

		if req.Name != nil {
			zone.Name = *req.Name
		}
		if req.Description != nil {
			zone.Description = req.Description
		}
		if req.ZoneType != nil {
			zone.ZoneType = *req.ZoneType
		}
		if req.ServiceFeeMultiplier != nil {
			zone.ServiceFeeMultiplier = *req.ServiceFeeMultiplier
		}
		if req.IsActive != nil {
			zone.IsActive = *req.IsActive
		}
		zone.UpdatedAt = time.Now().Unix()

		_, err := db.Exec(`
			UPDATE zones SET name = $1, description = $2, zone_type = $3,
				service_fee_multiplier = $4, is_active = $5, updated_at = $6
			WHERE id = $7`,
			zone.Name, zone.Description, zone.ZoneType, zone.ServiceFeeMultiplier,
			zone.IsActive, zone.UpdatedAt, id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to update zone")
			return
		}
		utils.Success(w, zone)
	}
}

// CheckZonePoint reports whether a coordinate lies inside the zone boundary.
// GET /api/zones/{id}/contains?lat=..&lng=..
func CheckZonePoint(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var zone models.Zone
		if err := db.Get(&zone, `SELECT * FROM zones WHERE id = $1`, id); err != nil {
			utils.Error(w, http.StatusNotFound, "Zone not found")
			return
		}

		lat, lng, err := parseLatLng(r.URL.Query().Get("lat"), r.URL.Query().Get("lng"))
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "lat and lng query parameters are required")
			return
		}

		polygon, err := geo.ParsePolygon(zone.Boundary)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Zone boundary is invalid")
			return
		}

		utils.Success(w, map[string]interface{}{
			"zone_id":  zone.ID,
			"contains": geo.PolygonContains(polygon, geo.Point{Latitude: lat, Longitude: lng}),
		})
	}
}
