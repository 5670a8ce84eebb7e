package models

// Request statuses shared by on-demand and scheduled pickup requests.
// "suspected" marks a completion accepted with a GPS-distance flag for review.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusConfirmed  RequestStatus = "confirmed"
	RequestStatusAssigned   RequestStatus = "assigned"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusSuspected  RequestStatus = "suspected"
	RequestStatusCancelled  RequestStatus = "cancelled"
	RequestStatusRejected   RequestStatus = "rejected"
)

// OnDemandRequest is a one-time pickup request without a subscription.
type OnDemandRequest struct {
	ID             string        `json:"id" db:"id"`
	ClientID       string        `json:"client_id" db:"client_id"`
	CollectorID    *string       `json:"collector_id,omitempty" db:"collector_id"`
	PickupDate     string        `json:"pickup_date" db:"pickup_date"` // YYYY-MM-DD
	PickupTimeSlot string        `json:"pickup_time_slot" db:"pickup_time_slot"`
	AddressLine1   string        `json:"address_line1" db:"address_line1"`
	City           string        `json:"city" db:"city"`
	Latitude       float64       `json:"latitude" db:"latitude"`
	Longitude      float64       `json:"longitude" db:"longitude"`
	BagCount       int           `json:"bag_count" db:"bag_count"`
	BinSizeLiters  *int          `json:"bin_size_liters,omitempty" db:"bin_size_liters"`
	WasteType      string        `json:"waste_type" db:"waste_type"`
	QuotedPrice    *float64      `json:"quoted_price,omitempty" db:"quoted_price"`
	Status         RequestStatus `json:"status" db:"status"`
	RequestedAt    int64         `json:"requested_at" db:"requested_at"`
	AcceptedAt     *int64        `json:"accepted_at,omitempty" db:"accepted_at"`
	CompletedAt    *int64        `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt    *int64        `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelReason   *string       `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt      int64         `json:"created_at" db:"created_at"`
	UpdatedAt      int64         `json:"updated_at" db:"updated_at"`
}

// ScheduledRequest is a recurring subscription pickup for a given date.
type ScheduledRequest struct {
	ID             string        `json:"id" db:"id"`
	ClientID       string        `json:"client_id" db:"client_id"`
	CompanyID      *string       `json:"company_id,omitempty" db:"company_id"`
	CollectorID    *string       `json:"collector_id,omitempty" db:"collector_id"`
	PickupDate     string        `json:"pickup_date" db:"pickup_date"` // YYYY-MM-DD
	PickupTimeSlot string        `json:"pickup_time_slot" db:"pickup_time_slot"`
	Recurrence     *string       `json:"recurrence,omitempty" db:"recurrence"` // daily, weekly, monthly
	AddressLine1   string        `json:"address_line1" db:"address_line1"`
	City           string        `json:"city" db:"city"`
	Latitude       float64       `json:"latitude" db:"latitude"`
	Longitude      float64       `json:"longitude" db:"longitude"`
	WasteType      string        `json:"waste_type" db:"waste_type"`
	Status         RequestStatus `json:"status" db:"status"`
	RequestedAt    int64         `json:"requested_at" db:"requested_at"`
	CompletedAt    *int64        `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt    *int64        `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelReason   *string       `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt      int64         `json:"created_at" db:"created_at"`
	UpdatedAt      int64         `json:"updated_at" db:"updated_at"`
}

// CreatePickupRequest is the shared request body for creating either kind
// of pickup request.
type CreatePickupRequest struct {
	ClientID       string   `json:"client_id"`
	CompanyID      *string  `json:"company_id,omitempty"`
	PickupDate     string   `json:"pickup_date"`
	PickupTimeSlot string   `json:"pickup_time_slot"`
	AddressLine1   string   `json:"address_line1"`
	City           string   `json:"city"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	BagCount       int      `json:"bag_count"`
	BinSizeLiters  *int     `json:"bin_size_liters,omitempty"`
	WasteType      string   `json:"waste_type"`
	Recurrence     *string  `json:"recurrence,omitempty"`
	QuotedPrice    *float64 `json:"quoted_price,omitempty"`
}
