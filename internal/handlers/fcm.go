package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"borla-backend/internal/middleware"
	"borla-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type registerTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

// RegisterFCMToken stores a device push token for the calling user.
// POST /api/fcm/token
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req registerTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Token == "" || (req.DeviceType != "ios" && req.DeviceType != "android") {
			utils.Error(w, http.StatusBadRequest, "token and device_type (ios|android) are required")
			return
		}

		now := time.Now().Unix()
		_, err := db.Exec(`
			INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (token) DO UPDATE SET
				user_id = EXCLUDED.user_id,
				device_type = EXCLUDED.device_type,
				updated_at = EXCLUDED.updated_at`,
			claims.UserID, req.Token, req.DeviceType, now)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		utils.Success(w, map[string]string{"status": "registered"})
	}
}
