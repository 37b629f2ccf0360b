package signal

import (
	"math"

	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/spatial"
	"github.com/jengzang/traffic-backend-go/internal/stats"
)

// Phase identifies which axis currently has the right of way
type Phase int

const (
	PhaseNSGreen Phase = iota
	PhaseEWGreen
)

func (p Phase) String() string {
	if p == PhaseNSGreen {
		return "ns_green"
	}
	return "ew_green"
}

// Signal timing parameters, in seconds
const (
	baseTiming        = 30
	minPhaseDuration  = 15
	maxPhaseDuration  = 90
	emergencyDuration = 60

	// Heavier axis gets at most 3x the base green time
	maxTimingRatio = 3.0

	// Fraction of waiting vehicles discharged during a green interval
	dischargeFraction = 0.7

	// Number of waiting-load snapshots kept for fairness accounting
	// (one hour at 5-minute steps)
	historyWindow = 12
)

// Controller is the adaptive signal controller for one intersection. It owns
// the phase state machine, the waiting-vehicle counts per approach, and a
// bounded history of total waiting load used for fairness metrics.
type Controller struct {
	id       string
	location spatial.Coord

	phase         Phase
	phaseDuration int
	timeInPhase   int
	emergencyMode bool

	waiting [spatial.NumDirections]int
	history []int
}

// NewController creates a controller at the given grid cell, starting with
// north-south green and the base cycle time.
func NewController(id string, location spatial.Coord) *Controller {
	return &Controller{
		id:            id,
		location:      location,
		phase:         PhaseNSGreen,
		phaseDuration: baseTiming,
		history:       make([]int, 0, historyWindow),
	}
}

// ID returns the intersection identifier
func (c *Controller) ID() string { return c.id }

// Location returns the fixed grid coordinate of the intersection
func (c *Controller) Location() spatial.Coord { return c.location }

// Phase returns the current signal phase
func (c *Controller) Phase() Phase { return c.phase }

// PhaseDuration returns the current phase length in seconds
func (c *Controller) PhaseDuration() int { return c.phaseDuration }

// TimeInPhase returns the time elapsed in the current phase
func (c *Controller) TimeInPhase() int { return c.timeInPhase }

// EmergencyMode reports whether the controller is holding an emergency phase
func (c *Controller) EmergencyMode() bool { return c.emergencyMode }

// Waiting returns the vehicle count queued on one approach
func (c *Controller) Waiting(d spatial.Direction) int { return c.waiting[d] }

// TotalWaiting returns the vehicle count queued across all approaches
func (c *Controller) TotalWaiting() int {
	total := 0
	for _, n := range c.waiting {
		total += n
	}
	return total
}

// ProcessTraffic overwrites the waiting-vehicle counts from a per-direction
// distribution, recomputes the signal timing unless an emergency override is
// holding the phase, records the total load in the fairness window, and
// returns a state snapshot.
func (c *Controller) ProcessTraffic(distributed [spatial.NumDirections]models.DirectionTraffic) models.ControllerSnapshot {
	for d, traffic := range distributed {
		c.waiting[d] = traffic.Total
	}

	if !c.emergencyMode {
		c.calculateOptimalTiming()
	}

	c.history = append(c.history, c.TotalWaiting())
	if len(c.history) > historyWindow {
		c.history = c.history[1:]
	}

	return c.Snapshot()
}

// Update advances the phase clock by timeStep seconds and switches the phase
// once the current duration has elapsed. Reports whether a switch occurred.
func (c *Controller) Update(timeStep int) bool {
	c.timeInPhase += timeStep

	if c.timeInPhase >= c.phaseDuration {
		c.switchPhase()
		return true
	}
	return false
}

// switchPhase toggles the signal and discharges vehicles on the two
// approaches that just received green.
func (c *Controller) switchPhase() {
	if c.phase == PhaseNSGreen {
		c.phase = PhaseEWGreen
	} else {
		c.phase = PhaseNSGreen
	}
	c.timeInPhase = 0

	if c.phase == PhaseNSGreen {
		c.processMovement(spatial.North, spatial.South)
	} else {
		c.processMovement(spatial.East, spatial.West)
	}
}

// processMovement clears the discharged fraction of vehicles waiting on the
// two green approaches, leaving the truncated remainder queued.
func (c *Controller) processMovement(dir1, dir2 spatial.Direction) {
	c.waiting[dir1] -= int(float64(c.waiting[dir1]) * dischargeFraction)
	c.waiting[dir2] -= int(float64(c.waiting[dir2]) * dischargeFraction)
}

// calculateOptimalTiming sets the phase duration from the waiting-vehicle
// imbalance. The currently green axis keeps a longer green proportional to
// its load (capped at 3x base), while a heavier cross axis shortens the
// current phase to the minimum. The result always lies in [15,90].
func (c *Controller) calculateOptimalTiming() {
	nsTotal := c.waiting[spatial.North] + c.waiting[spatial.South]
	ewTotal := c.waiting[spatial.East] + c.waiting[spatial.West]

	green, cross := nsTotal, ewTotal
	if c.phase == PhaseEWGreen {
		green, cross = ewTotal, nsTotal
	}

	if green > cross {
		// Divisor floored at 1 to guard an empty cross axis
		ratio := math.Min(maxTimingRatio, float64(green)/math.Max(1, float64(cross)))
		c.phaseDuration = int(baseTiming * ratio)
	} else {
		c.phaseDuration = minPhaseDuration
	}

	if c.phaseDuration > maxPhaseDuration {
		c.phaseDuration = maxPhaseDuration
	}
}

// EnterEmergencyMode forces the phase that serves the given approach and
// locks a long duration so normal timing cannot shrink it while the
// emergency corridor is open. A forced switch bypasses discharge accounting.
func (c *Controller) EnterEmergencyMode(approach spatial.Direction) {
	c.emergencyMode = true

	target := PhaseEWGreen
	if approach.IsNorthSouth() {
		target = PhaseNSGreen
	}

	if c.phase != target {
		c.phase = target
		c.timeInPhase = 0
	}

	c.phaseDuration = emergencyDuration
}

// ExitEmergencyMode resumes normal operation and immediately recomputes the
// timing from the current waiting vehicles.
func (c *Controller) ExitEmergencyMode() {
	c.emergencyMode = false
	c.calculateOptimalTiming()
}

// FairnessMetrics computes Jain's fairness index over the tracked waiting
// window, along with the max and mean load. An empty window is perfectly fair.
func (c *Controller) FairnessMetrics() models.FairnessReport {
	if len(c.history) == 0 {
		return models.FairnessReport{FairnessIndex: 1.0}
	}

	values := make([]float64, len(c.history))
	for i, w := range c.history {
		values[i] = float64(w)
	}

	return models.FairnessReport{
		FairnessIndex: stats.JainIndex(values),
		MaxWait:       stats.Max(values),
		AvgWait:       stats.Mean(values),
	}
}

// Snapshot returns the read-only view of the controller state
func (c *Controller) Snapshot() models.ControllerSnapshot {
	waiting := make(map[string]int, spatial.NumDirections)
	for _, d := range spatial.Directions() {
		waiting[d.String()] = c.waiting[d]
	}

	return models.ControllerSnapshot{
		IntersectionID:  c.id,
		Location:        c.location,
		Phase:           c.phase.String(),
		PhaseDuration:   c.phaseDuration,
		TimeInPhase:     c.timeInPhase,
		EmergencyMode:   c.emergencyMode,
		WaitingVehicles: waiting,
		TotalWaiting:    c.TotalWaiting(),
	}
}
