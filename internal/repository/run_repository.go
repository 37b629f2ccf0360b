package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/traffic-backend-go/internal/models"
)

// RunRepository handles database operations for completed simulation runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Insert stores a completed run summary
func (r *RunRepository) Insert(run models.SimulationRun) error {
	_, err := r.db.Exec(`INSERT INTO simulation_runs
		(run_id, grid_size, steps, scenario, avg_wait_time, fairness_index,
		 normal_response_time, emergency_response_time, improvement_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.GridSize, run.Steps, run.Scenario,
		run.AvgWaitTime, run.FairnessIndex,
		run.NormalResponseTime, run.EmergencyResponseTime, run.ImprovementPercent)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.RunID, err)
	}
	return nil
}

// List returns the most recent run summaries, newest first
func (r *RunRepository) List(limit int) ([]models.SimulationRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.db.Query(`SELECT id, run_id, grid_size, steps, scenario,
		avg_wait_time, fairness_index,
		normal_response_time, emergency_response_time, improvement_percent, created_at
		FROM simulation_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.SimulationRun
	for rows.Next() {
		var run models.SimulationRun
		err := rows.Scan(&run.ID, &run.RunID, &run.GridSize, &run.Steps, &run.Scenario,
			&run.AvgWaitTime, &run.FairnessIndex,
			&run.NormalResponseTime, &run.EmergencyResponseTime, &run.ImprovementPercent,
			&run.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
