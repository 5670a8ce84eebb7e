package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"borla-backend/internal/geo"
	"borla-backend/internal/models"
	"borla-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func parseLatLng(latStr, lngStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, err
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

// CreateClient registers a serviced location. The client is auto-assigned to
// the first active zone whose boundary contains its coordinates.
func CreateClient(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			utils.Error(w, http.StatusBadRequest, "name is required")
			return
		}
		propertyType := req.PropertyType
		if propertyType == "" {
			propertyType = models.PropertyResidential
		}

		zoneID := req.ZoneID
		if zoneID == nil {
			zoneID = findZoneFor(db, geo.Point{Latitude: req.Latitude, Longitude: req.Longitude})
		}

		now := time.Now().Unix()
		client := models.Client{
			ID:                           uuid.New().String(),
			Name:                         req.Name,
			PropertyType:                 propertyType,
			Latitude:                     req.Latitude,
			Longitude:                    req.Longitude,
			ZoneID:                       zoneID,
			SegregationCompliancePercent: 100,
			CreatedAt:                    now,
			UpdatedAt:                    now,
		}
		if req.Phone != "" {
			client.Phone = &req.Phone
		}

		_, err := db.Exec(`
			INSERT INTO clients (
				id, name, phone, property_type, latitude, longitude, zone_id,
				segregation_compliance_percent, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, 100, $8, $9)`,
			client.ID, client.Name, client.Phone, client.PropertyType,
			client.Latitude, client.Longitude, client.ZoneID, now, now)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to create client")
			return
		}

		utils.Created(w, client)
	}
}

// findZoneFor returns the id of the first active zone containing the point,
// or nil when none does.
func findZoneFor(db *sqlx.DB, p geo.Point) *string {
	zones := []models.Zone{}
	if err := db.Select(&zones, `SELECT * FROM zones WHERE is_active = TRUE ORDER BY zone_code ASC`); err != nil {
		return nil
	}
	for i := range zones {
		polygon, err := geo.ParsePolygon(zones[i].Boundary)
		if err != nil {
			continue
		}
		if geo.PolygonContains(polygon, p) {
			return &zones[i].ID
		}
	}
	return nil
}

func GetClients(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID := r.URL.Query().Get("zone_id")

		clients := []models.Client{}
		err := db.Select(&clients, `
			SELECT * FROM clients
			WHERE ($1 = '' OR zone_id = $1)
			ORDER BY created_at DESC`, zoneID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to get clients")
			return
		}
		utils.Success(w, clients)
	}
}

func GetClient(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var client models.Client
		if err := db.Get(&client, `SELECT * FROM clients WHERE id = $1`, id); err != nil {
			utils.Error(w, http.StatusNotFound, "Client not found")
			return
		}
		utils.Success(w, client)
	}
}
