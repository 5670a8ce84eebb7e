package models

// Company is a waste-management operator that owns routes.
type Company struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	City      string `json:"city" db:"city"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

// Supervisor plans routes and oversees collectors for a company.
type Supervisor struct {
	ID        string  `json:"id" db:"id"`
	UserID    string  `json:"user_id" db:"user_id"`
	Name      string  `json:"name" db:"name"`
	CompanyID *string `json:"company_id,omitempty" db:"company_id"`
	CreatedAt int64   `json:"created_at" db:"created_at"`
	UpdatedAt int64   `json:"updated_at" db:"updated_at"`
}
