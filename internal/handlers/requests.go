package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"borla-backend/internal/models"
	"borla-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateOnDemandRequest files a one-time pickup request.
func CreateOnDemandRequest(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreatePickupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ClientID == "" || req.PickupDate == "" {
			utils.Error(w, http.StatusBadRequest, "client_id and pickup_date are required")
			return
		}

		bagCount := req.BagCount
		if bagCount <= 0 {
			bagCount = 1
		}
		wasteType := req.WasteType
		if wasteType == "" {
			wasteType = "general"
		}

		now := time.Now().Unix()
		request := models.OnDemandRequest{
			ID:             uuid.New().String(),
			ClientID:       req.ClientID,
			PickupDate:     req.PickupDate,
			PickupTimeSlot: req.PickupTimeSlot,
			AddressLine1:   req.AddressLine1,
			City:           req.City,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			BagCount:       bagCount,
			BinSizeLiters:  req.BinSizeLiters,
			WasteType:      wasteType,
			QuotedPrice:    req.QuotedPrice,
			Status:         models.RequestStatusPending,
			RequestedAt:    now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		_, err := db.Exec(`
			INSERT INTO ondemand_requests (
				id, client_id, pickup_date, pickup_time_slot, address_line1, city,
				latitude, longitude, bag_count, bin_size_liters, waste_type,
				quoted_price, status, requested_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'pending', $13, $14, $15)`,
			request.ID, request.ClientID, request.PickupDate, request.PickupTimeSlot,
			request.AddressLine1, request.City, request.Latitude, request.Longitude,
			request.BagCount, request.BinSizeLiters, request.WasteType, request.QuotedPrice,
			now, now, now)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to create pickup request")
			return
		}

		utils.Created(w, request)
	}
}

// CreateScheduledRequest files a subscription pickup for a date.
func CreateScheduledRequest(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreatePickupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ClientID == "" || req.PickupDate == "" {
			utils.Error(w, http.StatusBadRequest, "client_id and pickup_date are required")
			return
		}

		wasteType := req.WasteType
		if wasteType == "" {
			wasteType = "general"
		}

		now := time.Now().Unix()
		request := models.ScheduledRequest{
			ID:             uuid.New().String(),
			ClientID:       req.ClientID,
			CompanyID:      req.CompanyID,
			PickupDate:     req.PickupDate,
			PickupTimeSlot: req.PickupTimeSlot,
			Recurrence:     req.Recurrence,
			AddressLine1:   req.AddressLine1,
			City:           req.City,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			WasteType:      wasteType,
			Status:         models.RequestStatusPending,
			RequestedAt:    now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		_, err := db.Exec(`
			INSERT INTO scheduled_requests (
				id, client_id, company_id, pickup_date, pickup_time_slot, recurrence,
				address_line1, city, latitude, longitude, waste_type, status,
				requested_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending', $12, $13, $14)`,
			request.ID, request.ClientID, request.CompanyID, request.PickupDate,
			request.PickupTimeSlot, request.Recurrence, request.AddressLine1, request.City,
			request.Latitude, request.Longitude, request.WasteType, now, now, now)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to create scheduled request")
			return
		}

		utils.Created(w, request)
	}
}

func GetOnDemandRequests(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests := []models.OnDemandRequest{}
		err := db.Select(&requests, `
			SELECT * FROM ondemand_requests
			WHERE ($1 = '' OR client_id = $1)
			  AND ($2 = '' OR status = $2)
			  AND ($3 = '' OR pickup_date = $3)
			ORDER BY requested_at DESC`,
			q.Get("client_id"), q.Get("status"), q.Get("pickup_date"))
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to get pickup requests")
			return
		}
		utils.Success(w, requests)
	}
}

func GetScheduledRequests(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		requests := []models.ScheduledRequest{}
		err := db.Select(&requests, `
			SELECT * FROM scheduled_requests
			WHERE ($1 = '' OR client_id = $1)
			  AND ($2 = '' OR status = $2)
			  AND ($3 = '' OR pickup_date = $3)
			ORDER BY requested_at DESC`,
			q.Get("client_id"), q.Get("status"), q.Get("pickup_date"))
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to get scheduled requests")
			return
		}
		utils.Success(w, requests)
	}
}

// AcceptOnDemandRequest confirms a pending one-time pickup so the route
// builder can assign it. Scheduled requests skip this step: subscriptions
// are confirmed by planning.
func AcceptOnDemandRequest(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		now := time.Now().Unix()
		result, err := db.Exec(`
			UPDATE ondemand_requests
			SET status = 'confirmed', accepted_at = $1, updated_at = $1
			WHERE id = $2 AND status = 'pending'`,
			now, id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to accept request")
			return
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			utils.Error(w, http.StatusConflict, "Request not found or not pending")
			return
		}

		utils.Success(w, map[string]interface{}{"id": id, "status": "confirmed"})
	}
}

type cancelRequestBody struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelOnDemandRequest cancels a pickup request that has not completed.
func CancelOnDemandRequest(db *sqlx.DB) http.HandlerFunc {
	return cancelRequest(db, "ondemand_requests")
}

// CancelScheduledRequest cancels a scheduled pickup that has not completed.
func CancelScheduledRequest(db *sqlx.DB) http.HandlerFunc {
	return cancelRequest(db, "scheduled_requests")
}

func cancelRequest(db *sqlx.DB, table string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var body cancelRequestBody
		// body is optional
		json.NewDecoder(r.Body).Decode(&body)

		now := time.Now().Unix()
		result, err := db.Exec(`
			UPDATE `+table+`
			SET status = 'cancelled', cancelled_at = $1, cancel_reason = $2, updated_at = $1
			WHERE id = $3 AND status NOT IN ('completed', 'suspected', 'cancelled', 'rejected')`,
			now, body.Reason, id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to cancel request")
			return
		}

		affected, _ := result.RowsAffected()
		if affected == 0 {
			utils.Error(w, http.StatusConflict, "Request not found or already finalized")
			return
		}

		utils.Success(w, map[string]interface{}{"id": id, "status": "cancelled"})
	}
}
