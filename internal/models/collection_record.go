package models

// Collection types
const (
	CollectionTypeScheduled = "scheduled"
	CollectionTypeOnDemand  = "on_demand"
	CollectionTypeEmergency = "emergency"
)

// RecordStatus is the lifecycle state of a collection record.
type RecordStatus string

const (
	RecordStatusPending    RecordStatus = "pending"
	RecordStatusInProgress RecordStatus = "in_progress"
	RecordStatusCompleted  RecordStatus = "completed"
	RecordStatusSkipped    RecordStatus = "skipped"
	RecordStatusCancelled  RecordStatus = "cancelled"
	RecordStatusRejected   RecordStatus = "rejected"
)

// CollectionRecord is the durable evidence of one waste collection event.
// Route and stop references are nullable so ad-hoc (emergency) collections
// can exist independently of route work.
type CollectionRecord struct {
	ID                    string       `json:"id" db:"id"`
	ClientID              string       `json:"client_id" db:"client_id"`
	CollectorID           *string      `json:"collector_id,omitempty" db:"collector_id"`
	RouteID               *string      `json:"route_id,omitempty" db:"route_id"`
	RouteStopID           *string      `json:"route_stop_id,omitempty" db:"route_stop_id"`
	CollectionType        string       `json:"collection_type" db:"collection_type"`
	ScheduledDate         string       `json:"scheduled_date" db:"scheduled_date"` // YYYY-MM-DD
	CollectionStart       *int64       `json:"collection_start,omitempty" db:"collection_start"`
	CollectionEnd         *int64       `json:"collection_end,omitempty" db:"collection_end"`
	CollectedAt           *int64       `json:"collected_at,omitempty" db:"collected_at"`
	BagCount              int          `json:"bag_count" db:"bag_count"`
	BinSizeLiters         *int         `json:"bin_size_liters,omitempty" db:"bin_size_liters"`
	EstimatedVolumeLiters *float64     `json:"estimated_volume_liters,omitempty" db:"estimated_volume_liters"`
	WasteType             string       `json:"waste_type" db:"waste_type"`
	PaymentMethod         string       `json:"payment_method" db:"payment_method"` // cash, momo, bank, later
	AmountPaid            float64      `json:"amount_paid" db:"amount_paid"`
	PhotoBeforeURL        *string      `json:"photo_before_url,omitempty" db:"photo_before_url"`
	PhotoAfterURL         *string      `json:"photo_after_url,omitempty" db:"photo_after_url"`
	SegregationScore      *int         `json:"segregation_score,omitempty" db:"segregation_score"`
	Status                RecordStatus `json:"status" db:"status"`
	GPSLatitude           *float64     `json:"gps_latitude,omitempty" db:"gps_latitude"`
	GPSLongitude          *float64     `json:"gps_longitude,omitempty" db:"gps_longitude"`
	Notes                 *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt             int64        `json:"created_at" db:"created_at"`
	UpdatedAt             int64        `json:"updated_at" db:"updated_at"`
}

// DurationMinutes returns the collection duration, derived from the
// start/end pair, or nil when either timestamp is missing.
func (c *CollectionRecord) DurationMinutes() *int {
	if c.CollectionStart == nil || c.CollectionEnd == nil {
		return nil
	}
	minutes := int((*c.CollectionEnd - *c.CollectionStart) / 60)
	return &minutes
}

// StopEvidence is the caller-supplied field evidence merged into a
// collection record when a stop is completed.
type StopEvidence struct {
	PaymentMethod         *string  `json:"payment_method,omitempty"`
	AmountPaid            *float64 `json:"amount_paid,omitempty"`
	BagCount              *int     `json:"bag_count,omitempty"`
	BinSizeLiters         *int     `json:"bin_size_liters,omitempty"`
	EstimatedVolumeLiters *float64 `json:"estimated_volume_liters,omitempty"`
	WasteType             *string  `json:"waste_type,omitempty"`
	PhotoBeforeURL        *string  `json:"photo_before_url,omitempty"`
	PhotoAfterURL         *string  `json:"photo_after_url,omitempty"`
	SegregationScore      *int     `json:"segregation_score,omitempty"`
	Latitude              *float64 `json:"latitude,omitempty"`
	Longitude             *float64 `json:"longitude,omitempty"`
	Notes                 *string  `json:"notes,omitempty"`
}
