package models

// RouteStatus is the lifecycle state of a collection route.
type RouteStatus string

const (
	RouteStatusDraft      RouteStatus = "draft"
	RouteStatusAssigned   RouteStatus = "assigned"
	RouteStatusInProgress RouteStatus = "in_progress"
	RouteStatusCompleted  RouteStatus = "completed"
	RouteStatusCancelled  RouteStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s RouteStatus) IsTerminal() bool {
	return s == RouteStatusCompleted || s == RouteStatusCancelled
}

// Route is an ordered sequence of stops assigned to one collector for one
// service date. Distance, duration and completion percent are derived from
// the stop sequence and never accepted as input.
type Route struct {
	ID                       string      `json:"id" db:"id"`
	CompanyID                string      `json:"company_id" db:"company_id"`
	ZoneID                   string      `json:"zone_id" db:"zone_id"`
	SupervisorID             string      `json:"supervisor_id" db:"supervisor_id"`
	CollectorID              string      `json:"collector_id" db:"collector_id"`
	RouteDate                string      `json:"route_date" db:"route_date"` // YYYY-MM-DD
	StartTime                *string     `json:"start_time,omitempty" db:"start_time"`
	EndTime                  *string     `json:"end_time,omitempty" db:"end_time"`
	ActualStart              *int64      `json:"actual_start,omitempty" db:"actual_start"`
	ActualEnd                *int64      `json:"actual_end,omitempty" db:"actual_end"`
	CompletionPercent        int         `json:"completion_percent" db:"completion_percent"`
	Status                   RouteStatus `json:"status" db:"status"`
	TotalDistanceKm          float64     `json:"total_distance_km" db:"total_distance_km"`
	EstimatedDurationMinutes float64     `json:"estimated_duration_minutes" db:"estimated_duration_minutes"`
	CreatedAt                int64       `json:"created_at" db:"created_at"`
	UpdatedAt                int64       `json:"updated_at" db:"updated_at"`
}

// RouteWithStops is the detail response shape for a single route.
type RouteWithStops struct {
	Route
	Stops []RouteStop `json:"stops"`
}

// StopInput is a caller-supplied stop in a route creation request.
type StopInput struct {
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	ExpectedMinutes    int     `json:"expected_minutes"`
	OnDemandRequestID  *string `json:"ondemand_request_id,omitempty"`
	ScheduledRequestID *string `json:"scheduled_request_id,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// CreateRouteRequest is the request body for POST /api/routes.
// When Stops is empty the builder auto-populates from clients inside the zone.
type CreateRouteRequest struct {
	CompanyID    string      `json:"company_id"`
	ZoneID       string      `json:"zone_id"`
	SupervisorID string      `json:"supervisor_id"`
	CollectorID  string      `json:"collector_id"`
	RouteDate    string      `json:"route_date"`
	StartTime    *string     `json:"start_time,omitempty"`
	EndTime      *string     `json:"end_time,omitempty"`
	Draft        bool        `json:"draft"` // true leaves the route unconfirmed
	Stops        []StopInput `json:"stops,omitempty"`
}

// UpdateRouteStatusRequest is the request body for PATCH /api/routes/:id/status
type UpdateRouteStatusRequest struct {
	Status RouteStatus `json:"status"`
}

// RouteCloseSummary is returned by POST /api/routes/:id/auto-close.
type RouteCloseSummary struct {
	RouteID          string   `json:"route_id"`
	DistanceKm       float64  `json:"distance_km"`
	StopsCompleted   int      `json:"stops_completed"`
	TimeSpentMinutes *float64 `json:"time_spent_minutes,omitempty"`
	IncentiveAwarded float64  `json:"incentive_awarded"`
}
