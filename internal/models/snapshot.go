package models

import "github.com/jengzang/traffic-backend-go/internal/spatial"

// ControllerSnapshot is the read-only state of one signal controller,
// sufficient for rendering and for API clients
type ControllerSnapshot struct {
	IntersectionID  string         `json:"intersection_id"`
	Location        spatial.Coord  `json:"location"`
	Phase           string         `json:"phase"` // ns_green or ew_green
	PhaseDuration   int            `json:"phase_duration"`
	TimeInPhase     int            `json:"time_in_phase"`
	EmergencyMode   bool           `json:"emergency_mode"`
	WaitingVehicles map[string]int `json:"waiting_vehicles"`
	TotalWaiting    int            `json:"total_waiting"`
}

// FairnessReport summarizes the waiting-load fairness at one intersection
type FairnessReport struct {
	FairnessIndex float64 `json:"fairness_index"`
	MaxWait       float64 `json:"max_wait"`
	AvgWait       float64 `json:"avg_wait"`
}

// EmergencySnapshot is the read-only state of one emergency vehicle
type EmergencySnapshot struct {
	VehicleID       string          `json:"vehicle_id"`
	Path            []spatial.Coord `json:"path"`
	CurrentPosition int             `json:"current_position"`
	Priority        int             `json:"priority"`
	Status          string          `json:"status"` // active or completed
	TravelTime      float64         `json:"travel_time,omitempty"`
}

// GridSnapshot is a full render-ready view of the simulation at one step
type GridSnapshot struct {
	Step        int                  `json:"step"`
	CurrentTime string               `json:"current_time"`
	GridSize    int                  `json:"grid_size"`
	Controllers []ControllerSnapshot `json:"controllers"`
	Emergencies []EmergencySnapshot  `json:"emergencies"`
}

// StepSummary reports the aggregates produced by a single simulation step
type StepSummary struct {
	Step          int     `json:"step"`
	CurrentTime   string  `json:"current_time"`
	AvgWaitTime   float64 `json:"avg_wait_time"`
	FairnessIndex float64 `json:"fairness_index"`
	PhaseSwitches int     `json:"phase_switches"`
}

// MetricsReport carries the per-step metric history of a run plus the
// scenario response-time summary
type MetricsReport struct {
	AverageWaitTime       []float64         `json:"average_wait_time"`
	FairnessIndex         []float64         `json:"fairness_index"`
	NormalResponseTime    *float64          `json:"normal_response_time"`
	EmergencyResponseTime *float64          `json:"emergency_response_time"`
	Emergency             *EmergencyMetrics `json:"emergency,omitempty"`
}

// EmergencyMetrics aggregates travel-time statistics over dispatched vehicles
type EmergencyMetrics struct {
	TotalEmergencies     int      `json:"total_emergencies"`
	CompletedEmergencies int      `json:"completed_emergencies"`
	AvgTravelTime        *float64 `json:"avg_travel_time"`
	MinTravelTime        float64  `json:"min_travel_time"`
	MaxTravelTime        float64  `json:"max_travel_time"`
}

// ComparisonReport is the normal-vs-emergency response payload for charts
type ComparisonReport struct {
	NormalResponseTime    float64 `json:"normal_response_time"`
	EmergencyResponseTime float64 `json:"emergency_response_time"`
	ImprovementPercent    float64 `json:"improvement_percent"`
}

// HeatmapPoint is one geo-projected intensity sample for map rendering
type HeatmapPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Intensity float64 `json:"intensity"`
}
