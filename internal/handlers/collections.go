package handlers

import (
	"net/http"

	"borla-backend/internal/models"
	"borla-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// GetCollectionRecords lists the evidence records, optionally filtered by
// client, route or scheduled date.
func GetCollectionRecords(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		records := []models.CollectionRecord{}
		err := db.Select(&records, `
			SELECT * FROM collection_records
			WHERE ($1 = '' OR client_id = $1)
			  AND ($2 = '' OR route_id = $2)
			  AND ($3 = '' OR scheduled_date = $3)
			ORDER BY created_at DESC`,
			q.Get("client_id"), q.Get("route_id"), q.Get("scheduled_date"))
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to get collection records")
			return
		}
		utils.Success(w, records)
	}
}

func GetCollectionRecord(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var record models.CollectionRecord
		if err := db.Get(&record, `SELECT * FROM collection_records WHERE id = $1`, id); err != nil {
			utils.Error(w, http.StatusNotFound, "Collection record not found")
			return
		}
		utils.Success(w, record)
	}
}
