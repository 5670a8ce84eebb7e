package models

// StopStatus is the lifecycle state of a single route stop.
type StopStatus string

const (
	StopStatusPending    StopStatus = "pending"
	StopStatusInProgress StopStatus = "in_progress"
	StopStatusCompleted  StopStatus = "completed"
	StopStatusSkipped    StopStatus = "skipped"
	StopStatusFailed     StopStatus = "failed"
)

// IsTerminal reports whether the stop can no longer change state without an
// administrative override.
func (s StopStatus) IsTerminal() bool {
	return s == StopStatusCompleted || s == StopStatusSkipped || s == StopStatusFailed
}

// RouteStop is one visit point in a route. At most one of the request
// references is set; unlinked stops are allowed (ad-hoc visits).
type RouteStop struct {
	ID                 string     `json:"id" db:"id"`
	RouteID            string     `json:"route_id" db:"route_id"`
	OnDemandRequestID  *string    `json:"ondemand_request_id,omitempty" db:"ondemand_request_id"`
	ScheduledRequestID *string    `json:"scheduled_request_id,omitempty" db:"scheduled_request_id"`
	ClientID           *string    `json:"client_id,omitempty" db:"client_id"`
	Latitude           float64    `json:"latitude" db:"latitude"`
	Longitude          float64    `json:"longitude" db:"longitude"`
	StopOrder          int        `json:"stop_order" db:"stop_order"` // 1 means first stop
	ExpectedMinutes    int        `json:"expected_minutes" db:"expected_minutes"`
	ActualStart        *int64     `json:"actual_start,omitempty" db:"actual_start"`
	ActualEnd          *int64     `json:"actual_end,omitempty" db:"actual_end"`
	Status             StopStatus `json:"status" db:"status"`
	Notes              *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt          int64      `json:"created_at" db:"created_at"`
	UpdatedAt          int64      `json:"updated_at" db:"updated_at"`
}

// Linked reports whether the stop references an originating pickup request.
func (s *RouteStop) Linked() bool {
	return s.OnDemandRequestID != nil || s.ScheduledRequestID != nil
}
