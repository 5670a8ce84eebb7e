package models

// Collector is a field worker who services route stops.
// The last known position is fed by the mobile client and consumed by the
// GPS proximity check at completion time.
type Collector struct {
	ID                 string   `json:"id" db:"id"`
	UserID             string   `json:"user_id" db:"user_id"`
	Name               string   `json:"name" db:"name"`
	Phone              *string  `json:"phone,omitempty" db:"phone"`
	CompanyID          *string  `json:"company_id,omitempty" db:"company_id"`
	TotalCollections   int      `json:"total_collections" db:"total_collections"`
	IncentiveBalance   float64  `json:"incentive_balance" db:"incentive_balance"`
	LastKnownLatitude  *float64 `json:"last_known_latitude,omitempty" db:"last_known_latitude"`
	LastKnownLongitude *float64 `json:"last_known_longitude,omitempty" db:"last_known_longitude"`
	CreatedAt          int64    `json:"created_at" db:"created_at"`
	UpdatedAt          int64    `json:"updated_at" db:"updated_at"`
}

// UpdateLocationRequest is the request body for POST /api/collector/location
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
