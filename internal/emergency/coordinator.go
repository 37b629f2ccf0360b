package emergency

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/spatial"
	"github.com/jengzang/traffic-backend-go/internal/stats"
)

// Coordinator errors
var (
	ErrVehicleNotFound  = errors.New("emergency vehicle not found")
	ErrDuplicateVehicle = errors.New("emergency vehicle already dispatched")
)

// Vehicle status values
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Controllers along the route are notified this many cells ahead of the
// vehicle position
const lookahead = 3

// record tracks one dispatched emergency vehicle. Completed records are
// retained so the final position and travel time stay inspectable.
type record struct {
	path      []spatial.Coord
	start     spatial.Coord
	end       spatial.Coord
	position  int
	priority  int
	status    string
	startTime time.Time

	// Seconds from dispatch to completion, set once at the transition
	travelTime float64

	cleared map[spatial.Coord]bool
}

// Notification tells one intersection to open the corridor for an
// approaching vehicle.
type Notification struct {
	Coord    spatial.Coord
	Approach spatial.Direction
}

// Dispatch is the result of dispatching an emergency vehicle
type Dispatch struct {
	VehicleID string
	Path      []spatial.Coord
	Notify    []Notification
	Priority  int
}

// Advance is the result of moving an emergency vehicle along its route
type Advance struct {
	VehicleID  string
	Position   spatial.Coord
	Notify     []Notification
	Completed  bool
	TravelTime float64
}

// Coordinator owns all emergency-vehicle records, generates their routes,
// and advances them along the grid. The clock is injected so travel times
// can be measured in simulated time.
type Coordinator struct {
	vehicles map[string]*record
	now      func() time.Time
}

// NewCoordinator creates a coordinator reading time from the given clock.
// A nil clock falls back to wall time.
func NewCoordinator(now func() time.Time) *Coordinator {
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		vehicles: make(map[string]*record),
		now:      now,
	}
}

// DispatchVehicle plans a route for a new emergency vehicle and registers it
// as active. A vehicle id that is still in flight is rejected rather than
// silently overwritten; a completed id may be reused.
// Returns the first few intersections to notify immediately.
func (c *Coordinator) DispatchVehicle(vehicleID string, start, end spatial.Coord, priority int) (Dispatch, error) {
	if existing, ok := c.vehicles[vehicleID]; ok && existing.status == StatusActive {
		return Dispatch{}, fmt.Errorf("dispatch %s: %w", vehicleID, ErrDuplicateVehicle)
	}

	path := generatePath(start, end)

	rec := &record{
		path:      path,
		start:     start,
		end:       end,
		priority:  priority,
		status:    StatusActive,
		startTime: c.now(),
		cleared:   make(map[spatial.Coord]bool),
	}
	c.vehicles[vehicleID] = rec

	notifyLen := lookahead
	if len(path) < notifyLen {
		notifyLen = len(path)
	}

	notify := make([]Notification, 0, notifyLen)
	for i := 0; i < notifyLen; i++ {
		notify = append(notify, Notification{
			Coord:    path[i],
			Approach: rec.headingInto(i),
		})
		rec.cleared[path[i]] = true
	}

	return Dispatch{
		VehicleID: vehicleID,
		Path:      path,
		Notify:    notify,
		Priority:  priority,
	}, nil
}

// generatePath builds a fixed two-leg route: one cell at a time along the
// x-axis toward the target column, then along the y-axis toward the target
// row. This is a deterministic placeholder router with Manhattan-distance
// length, not a shortest-path search.
func generatePath(start, end spatial.Coord) []spatial.Coord {
	path := make([]spatial.Coord, 0, spatial.ManhattanDistance(start, end))

	x, y := start.X, start.Y
	for x != end.X {
		if x < end.X {
			x++
		} else {
			x--
		}
		path = append(path, spatial.Coord{X: x, Y: y})
	}
	for y != end.Y {
		if y < end.Y {
			y++
		} else {
			y--
		}
		path = append(path, spatial.Coord{X: x, Y: y})
	}

	return path
}

// current returns the cell the vehicle occupies. A zero-distance route has
// no path cells, so the vehicle never leaves its start.
func (r *record) current() spatial.Coord {
	if len(r.path) == 0 {
		return r.start
	}
	return r.path[r.position]
}

// headingInto returns the direction the vehicle is traveling when it enters
// path[i], derived from the preceding route cell.
func (r *record) headingInto(i int) spatial.Direction {
	prev := r.start
	if i > 0 {
		prev = r.path[i-1]
	}
	return spatial.Heading(prev, r.path[i])
}

// UpdatePosition advances a vehicle along its route by the given number of
// cells, clamped to the route end. It returns the intersections newly
// entering the lookahead window; each intersection is notified at most once
// per vehicle. Reaching the final cell completes the vehicle exactly once
// and fixes its travel time. Advancing by zero steps mutates nothing.
func (c *Coordinator) UpdatePosition(vehicleID string, steps int) (Advance, error) {
	rec, ok := c.vehicles[vehicleID]
	if !ok {
		return Advance{}, fmt.Errorf("update %s: %w", vehicleID, ErrVehicleNotFound)
	}

	if rec.status == StatusCompleted {
		return Advance{
			VehicleID:  vehicleID,
			Position:   rec.current(),
			Completed:  true,
			TravelTime: rec.travelTime,
		}, nil
	}

	if len(rec.path) == 0 {
		// Degenerate dispatch with start == end
		rec.status = StatusCompleted
		rec.travelTime = c.now().Sub(rec.startTime).Seconds()
		return Advance{VehicleID: vehicleID, Position: rec.start, Completed: true, TravelTime: rec.travelTime}, nil
	}

	if steps <= 0 {
		return Advance{VehicleID: vehicleID, Position: rec.current()}, nil
	}

	newIdx := rec.position + steps
	if newIdx > len(rec.path)-1 {
		newIdx = len(rec.path) - 1
	}
	rec.position = newIdx

	var notify []Notification
	for i := 1; i <= lookahead; i++ {
		next := newIdx + i
		if next >= len(rec.path) {
			break
		}
		coord := rec.path[next]
		if rec.cleared[coord] {
			continue
		}
		rec.cleared[coord] = true
		notify = append(notify, Notification{Coord: coord, Approach: rec.headingInto(next)})
	}

	result := Advance{
		VehicleID: vehicleID,
		Position:  rec.path[newIdx],
		Notify:    notify,
	}

	if newIdx >= len(rec.path)-1 {
		rec.status = StatusCompleted
		rec.travelTime = c.now().Sub(rec.startTime).Seconds()
		result.Completed = true
		result.TravelTime = rec.travelTime
	}

	return result, nil
}

// ActiveVehicles returns the ids of vehicles still in flight, in a stable order
func (c *Coordinator) ActiveVehicles() []string {
	ids := make([]string, 0, len(c.vehicles))
	for id, rec := range c.vehicles {
		if rec.status == StatusActive {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Snapshots returns read-only views of every tracked vehicle, completed ones
// included, in a stable order.
func (c *Coordinator) Snapshots() []models.EmergencySnapshot {
	ids := make([]string, 0, len(c.vehicles))
	for id := range c.vehicles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snapshots := make([]models.EmergencySnapshot, 0, len(ids))
	for _, id := range ids {
		rec := c.vehicles[id]
		path := make([]spatial.Coord, len(rec.path))
		copy(path, rec.path)

		snapshots = append(snapshots, models.EmergencySnapshot{
			VehicleID:       id,
			Path:            path,
			CurrentPosition: rec.position,
			Priority:        rec.priority,
			Status:          rec.status,
			TravelTime:      rec.travelTime,
		})
	}
	return snapshots
}

// Metrics aggregates travel-time statistics across completed vehicles.
// The average is absent until at least one vehicle has completed.
func (c *Coordinator) Metrics() models.EmergencyMetrics {
	var travelTimes []float64
	for _, rec := range c.vehicles {
		if rec.status == StatusCompleted {
			travelTimes = append(travelTimes, rec.travelTime)
		}
	}

	metrics := models.EmergencyMetrics{
		TotalEmergencies:     len(c.vehicles),
		CompletedEmergencies: len(travelTimes),
	}

	if len(travelTimes) > 0 {
		avg := stats.Mean(travelTimes)
		metrics.AvgTravelTime = &avg
		metrics.MinTravelTime = stats.Min(travelTimes)
		metrics.MaxTravelTime = stats.Max(travelTimes)
	}

	return metrics
}
