package models

// Property types drive the default expected service minutes per stop.
const (
	PropertyResidential = "residential"
	PropertyCommercial  = "commercial"
	PropertyOther       = "other"
)

// Client is a serviced household or business location.
type Client struct {
	ID                           string  `json:"id" db:"id"`
	UserID                       *string `json:"user_id,omitempty" db:"user_id"`
	Name                         string  `json:"name" db:"name"`
	Phone                        *string `json:"phone,omitempty" db:"phone"`
	PropertyType                 string  `json:"property_type" db:"property_type"`
	Latitude                     float64 `json:"latitude" db:"latitude"`
	Longitude                    float64 `json:"longitude" db:"longitude"`
	ZoneID                       *string `json:"zone_id,omitempty" db:"zone_id"`
	SegregationCompliancePercent float64 `json:"segregation_compliance_percent" db:"segregation_compliance_percent"`
	WalletBalance                float64 `json:"wallet_balance" db:"wallet_balance"`
	CreatedAt                    int64   `json:"created_at" db:"created_at"`
	UpdatedAt                    int64   `json:"updated_at" db:"updated_at"`
}

// CreateClientRequest is the request body for POST /api/clients
type CreateClientRequest struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	PropertyType string  `json:"property_type"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ZoneID       *string `json:"zone_id,omitempty"`
}
