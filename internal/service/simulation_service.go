package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/traffic-backend-go/internal/emergency"
	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/repository"
	"github.com/jengzang/traffic-backend-go/internal/simulation"
	"github.com/jengzang/traffic-backend-go/internal/spatial"
	"github.com/jengzang/traffic-backend-go/internal/traffic"
	"github.com/jengzang/traffic-backend-go/internal/viz"
)

// ErrRunNotFound is returned for unknown simulation run ids
var ErrRunNotFound = errors.New("simulation run not found")

// RunInfo describes a registered simulation run
type RunInfo struct {
	RunID     string    `json:"run_id"`
	GridSize  int       `json:"grid_size"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

// RunResult carries the outcome of running a scenario to completion
type RunResult struct {
	RunID      string                   `json:"run_id"`
	Steps      int                      `json:"steps"`
	Metrics    models.MetricsReport     `json:"metrics"`
	Comparison *models.ComparisonReport `json:"comparison,omitempty"`
}

// runState pairs an engine with the lock that serializes access to it. The
// engine itself is single-threaded; the lock keeps each step atomic with
// respect to concurrent API callers.
type runState struct {
	mu     sync.Mutex
	info   RunInfo
	engine *simulation.Engine
}

// SimulationService manages the registry of in-memory simulation runs and
// persists completed run summaries.
type SimulationService struct {
	mu   sync.RWMutex
	runs map[string]*runState

	source   traffic.Source
	runRepo  *repository.RunRepository
	gridSize int
}

// NewSimulationService creates a simulation service over the given traffic
// source. runRepo may be nil when run persistence is not configured.
func NewSimulationService(source traffic.Source, runRepo *repository.RunRepository, gridSize int) *SimulationService {
	if gridSize <= 0 {
		gridSize = simulation.DefaultGridSize
	}
	return &SimulationService{
		runs:     make(map[string]*runState),
		source:   source,
		runRepo:  runRepo,
		gridSize: gridSize,
	}
}

// CreateRun registers a new simulation with its own seeded distributor.
// A zero seed draws one from the clock so each run still gets recorded
// reproducibly.
func (s *SimulationService) CreateRun(gridSize int, seed int64) (RunInfo, error) {
	if gridSize <= 0 {
		gridSize = s.gridSize
	}
	if gridSize > 32 {
		return RunInfo{}, fmt.Errorf("grid size %d exceeds the supported maximum of 32", gridSize)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	distributor := traffic.NewDistributor(rand.New(rand.NewSource(seed)))
	engine := simulation.NewEngine(s.source, distributor, gridSize)

	info := RunInfo{
		RunID:     uuid.NewString(),
		GridSize:  gridSize,
		Seed:      seed,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.runs[info.RunID] = &runState{info: info, engine: engine}
	s.mu.Unlock()

	return info, nil
}

func (s *SimulationService) getRun(runID string) (*runState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return run, nil
}

// Step advances a run by a single simulation step
func (s *SimulationService) Step(runID string) (models.StepSummary, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return models.StepSummary{}, err
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	return run.engine.RunStep()
}

// Run executes a scenario over the given number of steps and persists the
// summary once finished.
func (s *SimulationService) Run(runID string, steps int, emergencyScenario bool) (RunResult, error) {
	if steps <= 0 {
		return RunResult{}, fmt.Errorf("steps must be positive, got %d", steps)
	}
	if steps > 10000 {
		return RunResult{}, fmt.Errorf("steps %d exceeds the supported maximum of 10000", steps)
	}

	run, err := s.getRun(runID)
	if err != nil {
		return RunResult{}, err
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	if _, err := run.engine.RunSimulation(steps, emergencyScenario); err != nil {
		return RunResult{}, err
	}

	result := RunResult{
		RunID:      runID,
		Steps:      run.engine.Step(),
		Metrics:    run.engine.Metrics(),
		Comparison: run.engine.Comparison(),
	}

	s.persistRun(run, result, emergencyScenario)

	return result, nil
}

// persistRun stores the run summary; persistence failures are logged, not
// surfaced, since the in-memory result is already complete.
func (s *SimulationService) persistRun(run *runState, result RunResult, emergencyScenario bool) {
	if s.runRepo == nil {
		return
	}

	record := models.SimulationRun{
		RunID:    run.info.RunID,
		GridSize: run.info.GridSize,
		Steps:    result.Steps,
		Scenario: models.RunScenarioNormal,
	}

	if n := len(result.Metrics.AverageWaitTime); n > 0 {
		record.AvgWaitTime = result.Metrics.AverageWaitTime[n-1]
	}
	if n := len(result.Metrics.FairnessIndex); n > 0 {
		record.FairnessIndex = result.Metrics.FairnessIndex[n-1]
	}

	if emergencyScenario {
		record.Scenario = models.RunScenarioEmergency
		if result.Comparison != nil {
			record.NormalResponseTime = result.Comparison.NormalResponseTime
			record.EmergencyResponseTime = result.Comparison.EmergencyResponseTime
			record.ImprovementPercent = result.Comparison.ImprovementPercent
		}
	}

	if err := s.runRepo.Insert(record); err != nil {
		log.Printf("Failed to persist run %s: %v", run.info.RunID, err)
	}
}

// DispatchEmergency routes a priority vehicle through a run's grid. An empty
// vehicle id gets a generated one.
func (s *SimulationService) DispatchEmergency(runID, vehicleID string, start, end spatial.Coord, priority int) (emergency.Dispatch, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return emergency.Dispatch{}, err
	}

	if vehicleID == "" {
		vehicleID = "vehicle_" + uuid.NewString()
	}
	if priority <= 0 {
		priority = 1
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	return run.engine.DispatchEmergency(vehicleID, start, end, priority)
}

// Snapshot returns the render-ready state of a run
func (s *SimulationService) Snapshot(runID string) (models.GridSnapshot, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return models.GridSnapshot{}, err
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	return run.engine.Snapshot(), nil
}

// Metrics returns the metric history of a run
func (s *SimulationService) Metrics(runID string) (models.MetricsReport, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return models.MetricsReport{}, err
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	return run.engine.Metrics(), nil
}

// Heatmap returns geo-projected intensity points for a run's current state
func (s *SimulationService) Heatmap(runID string) ([]models.HeatmapPoint, error) {
	run, err := s.getRun(runID)
	if err != nil {
		return nil, err
	}

	run.mu.Lock()
	snapshot := run.engine.Snapshot()
	run.mu.Unlock()

	return viz.HeatmapPoints(snapshot, viz.DefaultAnchor), nil
}

// ListRuns returns persisted run summaries, newest first
func (s *SimulationService) ListRuns(limit int) ([]models.SimulationRun, error) {
	if s.runRepo == nil {
		return nil, nil
	}
	return s.runRepo.List(limit)
}
