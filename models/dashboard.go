package models

// DashboardStats backs the admin overview.
type DashboardStats struct {
	TeamsTotal          int `json:"teams_total"`
	StudentsTotal       int `json:"students_total"`
	EventsTotal         int `json:"events_total"`
	ParticipationsTotal int `json:"participations_total"`
	ResultsDeclared     int `json:"results_declared"`
}
