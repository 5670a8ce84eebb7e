package models

// Zone represents a polygonal geographic service area.
// The boundary is stored as a GeoJSON Polygon string; the center point is
// derived from the boundary at creation time when not supplied.
type Zone struct {
	ID                   string  `json:"id" db:"id"`
	ZoneCode             string  `json:"zone_code" db:"zone_code"`
	Name                 string  `json:"name" db:"name"`
	Description          *string `json:"description,omitempty" db:"description"`
	City                 string  `json:"city" db:"city"`
	ZoneType             string  `json:"zone_type" db:"zone_type"` // residential, commercial, industrial, mixed
	Boundary             string  `json:"boundary" db:"boundary"`   // GeoJSON Polygon
	CenterLatitude       float64 `json:"center_latitude" db:"center_latitude"`
	CenterLongitude      float64 `json:"center_longitude" db:"center_longitude"`
	ServiceFeeMultiplier float64 `json:"service_fee_multiplier" db:"service_fee_multiplier"`
	IsActive             bool    `json:"is_active" db:"is_active"`
	CreatedAt            int64   `json:"created_at" db:"created_at"`
	UpdatedAt            int64   `json:"updated_at" db:"updated_at"`
}

// CreateZoneRequest is the request body for POST /api/zones
type CreateZoneRequest struct {
	ZoneCode             string   `json:"zone_code"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	City                 string   `json:"city"`
	ZoneType             string   `json:"zone_type"`
	Boundary             string   `json:"boundary"` // GeoJSON Polygon
	CenterLatitude       *float64 `json:"center_latitude,omitempty"`
	CenterLongitude      *float64 `json:"center_longitude,omitempty"`
	ServiceFeeMultiplier *float64 `json:"service_fee_multiplier,omitempty"`
}

// UpdateZoneRequest is the request body for PATCH /api/zones/:id
type UpdateZoneRequest struct {
	Name                 *string  `json:"name,omitempty"`
	Description          *string  `json:"description,omitempty"`
	ZoneType             *string  `json:"zone_type,omitempty"`
	ServiceFeeMultiplier *float64 `json:"service_fee_multiplier,omitempty"`
	IsActive             *bool    `json:"is_active,omitempty"`
}
