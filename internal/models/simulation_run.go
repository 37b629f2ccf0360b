package models

import "time"

// SimulationRun is the persisted summary of a completed simulation run
type SimulationRun struct {
	ID int64 `json:"id" db:"id"`

	RunID    string `json:"run_id" db:"run_id"`
	GridSize int    `json:"grid_size" db:"grid_size"`
	Steps    int    `json:"steps" db:"steps"`
	Scenario string `json:"scenario" db:"scenario"` // normal or emergency

	// Final metric values
	AvgWaitTime   float64 `json:"avg_wait_time" db:"avg_wait_time"`
	FairnessIndex float64 `json:"fairness_index" db:"fairness_index"`

	// Response-time comparison, zero unless the emergency scenario ran
	NormalResponseTime    float64 `json:"normal_response_time" db:"normal_response_time"`
	EmergencyResponseTime float64 `json:"emergency_response_time" db:"emergency_response_time"`
	ImprovementPercent    float64 `json:"improvement_percent" db:"improvement_percent"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Run scenario constants
const (
	RunScenarioNormal    = "normal"
	RunScenarioEmergency = "emergency"
)
