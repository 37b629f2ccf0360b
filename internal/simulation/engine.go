package simulation

import (
	"fmt"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/emergency"
	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/signal"
	"github.com/jengzang/traffic-backend-go/internal/spatial"
	"github.com/jengzang/traffic-backend-go/internal/stats"
	"github.com/jengzang/traffic-backend-go/internal/traffic"
)

// DefaultGridSize is the standard demo grid
const DefaultGridSize = 4

// Simulation timing. Each step represents five minutes of traffic; the
// per-step value fed into the signal phase clocks matches the original
// model's units.
const (
	stepMinutes     = 5
	signalTimeStep  = 5
	emergencyStride = 1
)

// Grid traversal rates for the response-time comparison, in seconds per
// grid cell. These analytic constants define the reported normal and
// emergency corridor times; they are illustrative, not measured from the
// step loop (see DESIGN.md).
const (
	normalSecondsPerCell    = 60
	emergencySecondsPerCell = 20
)

// Metrics holds the per-step aggregates of a run plus the scenario
// response-time summary, each summary field set at most once per run.
type Metrics struct {
	AverageWaitTime       []float64
	FairnessIndex         []float64
	NormalResponseTime    *float64
	EmergencyResponseTime *float64
}

// Engine owns the controller grid, the emergency coordinator, and the
// simulation clock, and advances the whole system one step at a time.
// Everything is synchronous and deterministic given a seeded distributor.
type Engine struct {
	gridSize    int
	controllers []*signal.Controller
	coordinator *emergency.Coordinator
	source      traffic.Source
	distributor *traffic.Distributor

	currentTime time.Time
	step        int
	metrics     Metrics
}

// NewEngine builds an N×N controller grid fed by the given traffic source
// and distributor. The simulation clock starts at 8 AM on the dataset's
// first day; the coordinator measures travel times against this clock.
func NewEngine(source traffic.Source, distributor *traffic.Distributor, gridSize int) *Engine {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}

	e := &Engine{
		gridSize:    gridSize,
		source:      source,
		distributor: distributor,
		currentTime: time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC),
	}

	e.controllers = make([]*signal.Controller, 0, gridSize*gridSize)
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			id := fmt.Sprintf("intersection_%d", y*gridSize+x)
			e.controllers = append(e.controllers, signal.NewController(id, spatial.Coord{X: x, Y: y}))
		}
	}

	e.coordinator = emergency.NewCoordinator(func() time.Time { return e.currentTime })

	return e
}

// GridSize returns the grid dimension
func (e *Engine) GridSize() int { return e.gridSize }

// Step returns the number of completed simulation steps
func (e *Engine) Step() int { return e.step }

// CurrentTime returns the simulation clock
func (e *Engine) CurrentTime() time.Time { return e.currentTime }

// ControllerAt returns the controller at a grid cell, or nil when the cell
// lies outside the grid.
func (e *Engine) ControllerAt(c spatial.Coord) *signal.Controller {
	if c.X < 0 || c.X >= e.gridSize || c.Y < 0 || c.Y >= e.gridSize {
		return nil
	}
	return e.controllers[c.Y*e.gridSize+c.X]
}

// inGrid reports whether a coordinate addresses a real intersection
func (e *Engine) inGrid(c spatial.Coord) bool {
	return c.X >= 0 && c.X < e.gridSize && c.Y >= 0 && c.Y < e.gridSize
}

// DispatchEmergency routes a priority vehicle across the grid and opens the
// corridor at the first intersections along its path.
func (e *Engine) DispatchEmergency(vehicleID string, start, end spatial.Coord, priority int) (emergency.Dispatch, error) {
	if !e.inGrid(start) || !e.inGrid(end) {
		return emergency.Dispatch{}, fmt.Errorf("dispatch %s: coordinates %s -> %s outside %dx%d grid",
			vehicleID, start, end, e.gridSize, e.gridSize)
	}

	dispatch, err := e.coordinator.DispatchVehicle(vehicleID, start, end, priority)
	if err != nil {
		return emergency.Dispatch{}, err
	}

	e.applyNotifications(dispatch.Notify)
	return dispatch, nil
}

// applyNotifications forces each notified intersection into emergency mode
// along the vehicle's approach heading.
func (e *Engine) applyNotifications(notify []emergency.Notification) {
	for _, n := range notify {
		if ctrl := e.ControllerAt(n.Coord); ctrl != nil {
			ctrl.EnterEmergencyMode(n.Approach)
		}
	}
}

// RunStep advances the simulation by one step: feed the current traffic
// reading through every controller, advance the phase clocks, move active
// emergency vehicles and open their corridors, record metrics, and advance
// the simulation clock. The grid is fully updated before the call returns.
func (e *Engine) RunStep() (models.StepSummary, error) {
	reading, err := e.source.TrafficForTime(e.currentTime)
	if err != nil {
		return models.StepSummary{}, fmt.Errorf("step %d: %w", e.step, err)
	}

	waitTimes := make([]float64, 0, len(e.controllers))
	fairnessValues := make([]float64, 0, len(e.controllers))
	switches := 0

	for _, ctrl := range e.controllers {
		distributed := e.distributor.Distribute(reading)
		ctrl.ProcessTraffic(distributed)

		if ctrl.Update(signalTimeStep) {
			switches++
		}

		waitTimes = append(waitTimes, float64(ctrl.TotalWaiting()))
		fairnessValues = append(fairnessValues, ctrl.FairnessMetrics().FairnessIndex)
	}

	avgWait := stats.Mean(waitTimes)
	avgFairness := stats.Mean(fairnessValues)
	e.metrics.AverageWaitTime = append(e.metrics.AverageWaitTime, avgWait)
	e.metrics.FairnessIndex = append(e.metrics.FairnessIndex, avgFairness)

	for _, vehicleID := range e.coordinator.ActiveVehicles() {
		advance, err := e.coordinator.UpdatePosition(vehicleID, emergencyStride)
		if err != nil {
			return models.StepSummary{}, fmt.Errorf("step %d: %w", e.step, err)
		}

		e.applyNotifications(advance.Notify)

		if advance.Completed {
			// Corridor closed: every held intersection returns to
			// normal timing
			for _, ctrl := range e.controllers {
				if ctrl.EmergencyMode() {
					ctrl.ExitEmergencyMode()
				}
			}
		}
	}

	e.currentTime = e.currentTime.Add(stepMinutes * time.Minute)
	e.step++

	return models.StepSummary{
		Step:          e.step,
		CurrentTime:   e.currentTime.Format(time.RFC3339),
		AvgWaitTime:   avgWait,
		FairnessIndex: avgFairness,
		PhaseSwitches: switches,
	}, nil
}

// VehicleActive reports whether a dispatched vehicle is still in flight
func (e *Engine) VehicleActive(vehicleID string) bool {
	for _, id := range e.coordinator.ActiveVehicles() {
		if id == vehicleID {
			return true
		}
	}
	return false
}

// EmergencyMetrics returns the coordinator's travel-time aggregates
func (e *Engine) EmergencyMetrics() models.EmergencyMetrics {
	return e.coordinator.Metrics()
}

// Metrics returns the metric history of the run together with the
// emergency travel-time aggregates.
func (e *Engine) Metrics() models.MetricsReport {
	report := models.MetricsReport{
		AverageWaitTime:       append([]float64(nil), e.metrics.AverageWaitTime...),
		FairnessIndex:         append([]float64(nil), e.metrics.FairnessIndex...),
		NormalResponseTime:    e.metrics.NormalResponseTime,
		EmergencyResponseTime: e.metrics.EmergencyResponseTime,
	}

	em := e.coordinator.Metrics()
	report.Emergency = &em
	return report
}

// Comparison returns the normal-vs-emergency response report once the
// emergency scenario has run, nil otherwise.
func (e *Engine) Comparison() *models.ComparisonReport {
	if e.metrics.NormalResponseTime == nil || e.metrics.EmergencyResponseTime == nil {
		return nil
	}

	normal := *e.metrics.NormalResponseTime
	emergencyTime := *e.metrics.EmergencyResponseTime
	improvement := 0.0
	if normal > 0 {
		improvement = (normal - emergencyTime) / normal * 100
	}

	return &models.ComparisonReport{
		NormalResponseTime:    normal,
		EmergencyResponseTime: emergencyTime,
		ImprovementPercent:    improvement,
	}
}

// Snapshot returns the render-ready state of the full grid and every
// tracked emergency vehicle.
func (e *Engine) Snapshot() models.GridSnapshot {
	controllers := make([]models.ControllerSnapshot, 0, len(e.controllers))
	for _, ctrl := range e.controllers {
		controllers = append(controllers, ctrl.Snapshot())
	}

	return models.GridSnapshot{
		Step:        e.step,
		CurrentTime: e.currentTime.Format(time.RFC3339),
		GridSize:    e.gridSize,
		Controllers: controllers,
		Emergencies: e.coordinator.Snapshots(),
	}
}
