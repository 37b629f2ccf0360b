package emergency

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/spatial"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestGeneratePathCornerToCorner(t *testing.T) {
	clock := newFakeClock()
	c := NewCoordinator(clock.now)

	dispatch, err := c.DispatchVehicle("ambulance_1", spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 3, Y: 3}, 1)
	if err != nil {
		t.Fatalf("Expected no dispatch error, got: %v", err)
	}

	if len(dispatch.Path) != 6 {
		t.Fatalf("path length = %d, want 6", len(dispatch.Path))
	}

	// x-leg first, then y-leg
	want := []spatial.Coord{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 3, Y: 2}, {X: 3, Y: 3}}
	for i, coord := range want {
		if dispatch.Path[i] != coord {
			t.Errorf("path[%d] = %v, want %v", i, dispatch.Path[i], coord)
		}
	}
}

func TestGeneratePathNegativeDirection(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)

	dispatch, err := c.DispatchVehicle("v1", spatial.Coord{X: 3, Y: 2}, spatial.Coord{X: 1, Y: 0}, 1)
	if err != nil {
		t.Fatalf("Expected no dispatch error, got: %v", err)
	}

	want := []spatial.Coord{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	if len(dispatch.Path) != len(want) {
		t.Fatalf("path length = %d, want %d", len(dispatch.Path), len(want))
	}
	for i, coord := range want {
		if dispatch.Path[i] != coord {
			t.Errorf("path[%d] = %v, want %v", i, dispatch.Path[i], coord)
		}
	}
}

func TestDispatchNotifiesFirstThree(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)

	dispatch, _ := c.DispatchVehicle("v1", spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 3, Y: 3}, 1)

	if len(dispatch.Notify) != 3 {
		t.Fatalf("notify length = %d, want 3", len(dispatch.Notify))
	}
	for i, n := range dispatch.Notify {
		if n.Coord != dispatch.Path[i] {
			t.Errorf("notify[%d] = %v, want %v", i, n.Coord, dispatch.Path[i])
		}
		// The x-leg is eastbound
		if n.Approach != spatial.East {
			t.Errorf("notify[%d] approach = %v, want east", i, n.Approach)
		}
	}
}

func TestDispatchShortPath(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)

	dispatch, _ := c.DispatchVehicle("v1", spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 1, Y: 0}, 1)

	if len(dispatch.Path) != 1 || len(dispatch.Notify) != 1 {
		t.Errorf("path/notify lengths = %d/%d, want 1/1", len(dispatch.Path), len(dispatch.Notify))
	}
}

func TestDispatchRejectsDuplicateActive(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)

	if _, err := c.DispatchVehicle("v1", spatial.Coord{}, spatial.Coord{X: 2}, 1); err != nil {
		t.Fatalf("Expected no error on first dispatch, got: %v", err)
	}

	_, err := c.DispatchVehicle("v1", spatial.Coord{}, spatial.Coord{X: 3}, 1)
	if !errors.Is(err, ErrDuplicateVehicle) {
		t.Errorf("Expected ErrDuplicateVehicle, got: %v", err)
	}
}

func TestDispatchAllowsReuseAfterCompletion(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)

	c.DispatchVehicle("v1", spatial.Coord{}, spatial.Coord{X: 1}, 1)
	if _, err := c.UpdatePosition("v1", 5); err != nil {
		t.Fatalf("Expected no advance error, got: %v", err)
	}

	if _, err := c.DispatchVehicle("v1", spatial.Coord{}, spatial.Coord{X: 2}, 1); err != nil {
		t.Errorf("Expected completed id to be reusable, got: %v", err)
	}
}

func TestUpdatePositionUnknownVehicle(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)

	_, err := c.UpdatePosition("ghost", 1)
	if !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("Expected ErrVehicleNotFound, got: %v", err)
	}
}

func TestUpdatePositionZeroStepsIsIdempotent(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)
	c.DispatchVehicle("v1", spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 3, Y: 3}, 1)

	before := c.vehicles["v1"]
	clearedBefore := len(before.cleared)
	posBefore := before.position

	advance, err := c.UpdatePosition("v1", 0)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if advance.Completed {
		t.Error("Expected vehicle still active")
	}

	if before.position != posBefore {
		t.Errorf("position changed: %d -> %d", posBefore, before.position)
	}
	if len(before.cleared) != clearedBefore {
		t.Errorf("cleared set changed: %d -> %d", clearedBefore, len(before.cleared))
	}
	if before.status != StatusActive {
		t.Errorf("status = %q, want active", before.status)
	}
}

func TestUpdatePositionNotifiesLookaheadOnce(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)
	dispatch, _ := c.DispatchVehicle("v1", spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 3, Y: 3}, 1)

	advance, err := c.UpdatePosition("v1", 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if advance.Position != dispatch.Path[1] {
		t.Errorf("position = %v, want %v", advance.Position, dispatch.Path[1])
	}

	// Path cells 0-2 were notified at dispatch; position 1 looks ahead to
	// cells 2-4, so only 3 and 4 are new
	if len(advance.Notify) != 2 {
		t.Fatalf("notify length = %d, want 2", len(advance.Notify))
	}
	if advance.Notify[0].Coord != dispatch.Path[3] || advance.Notify[1].Coord != dispatch.Path[4] {
		t.Errorf("notify = %v, want path cells 3 and 4", advance.Notify)
	}

	// The y-leg is northbound
	if advance.Notify[0].Approach != spatial.North {
		t.Errorf("approach = %v, want north for the y-leg", advance.Notify[0].Approach)
	}

	// Advancing again must not re-notify the same cells
	advance, _ = c.UpdatePosition("v1", 1)
	if len(advance.Notify) != 1 {
		t.Fatalf("notify length = %d, want 1", len(advance.Notify))
	}
	if advance.Notify[0].Coord != dispatch.Path[5] {
		t.Errorf("notify = %v, want path cell 5", advance.Notify[0].Coord)
	}
}

func TestUpdatePositionClampsAndCompletesOnce(t *testing.T) {
	clock := newFakeClock()
	c := NewCoordinator(clock.now)
	c.DispatchVehicle("v1", spatial.Coord{X: 0, Y: 0}, spatial.Coord{X: 2, Y: 0}, 1)

	clock.advance(10 * time.Minute)

	advance, err := c.UpdatePosition("v1", 100)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !advance.Completed {
		t.Fatal("Expected completion when steps exceed the path length")
	}
	if advance.Position != (spatial.Coord{X: 2, Y: 0}) {
		t.Errorf("position = %v, want clamped to path end", advance.Position)
	}
	if advance.TravelTime != 600 {
		t.Errorf("travel time = %v, want 600 seconds of simulated time", advance.TravelTime)
	}

	// Repeated calls after completion are no-ops reporting completed
	clock.advance(time.Hour)
	again, err := c.UpdatePosition("v1", 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !again.Completed {
		t.Error("Expected completed status to persist")
	}
	if again.TravelTime != 600 {
		t.Errorf("travel time recomputed: %v, want 600", again.TravelTime)
	}
}

func TestUpdatePositionZeroDistanceDispatch(t *testing.T) {
	clock := newFakeClock()
	c := NewCoordinator(clock.now)

	start := spatial.Coord{X: 2, Y: 2}
	dispatch, err := c.DispatchVehicle("v1", start, start, 1)
	if err != nil {
		t.Fatalf("Expected no dispatch error, got: %v", err)
	}
	if len(dispatch.Path) != 0 || len(dispatch.Notify) != 0 {
		t.Errorf("path/notify lengths = %d/%d, want 0/0", len(dispatch.Path), len(dispatch.Notify))
	}

	clock.advance(5 * time.Minute)
	advance, err := c.UpdatePosition("v1", 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !advance.Completed {
		t.Fatal("Expected a zero-distance route to complete immediately")
	}
	if advance.Position != start {
		t.Errorf("position = %v, want the start cell %v", advance.Position, start)
	}
	if advance.TravelTime != 300 {
		t.Errorf("travel time = %v, want 300", advance.TravelTime)
	}

	// Repeated calls stay no-ops reporting completed, at the start cell
	clock.advance(time.Hour)
	for i := 0; i < 3; i++ {
		again, err := c.UpdatePosition("v1", 1)
		if err != nil {
			t.Fatalf("call %d: expected no error, got: %v", i, err)
		}
		if !again.Completed || again.Position != start || again.TravelTime != 300 {
			t.Errorf("call %d: advance = %+v, want completed at %v with travel time 300", i, again, start)
		}
	}
}

func TestCompletedRecordRetained(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)
	c.DispatchVehicle("v1", spatial.Coord{}, spatial.Coord{X: 1}, 1)
	c.UpdatePosition("v1", 1)

	snapshots := c.Snapshots()
	if len(snapshots) != 1 {
		t.Fatalf("snapshot count = %d, want 1", len(snapshots))
	}
	if snapshots[0].Status != StatusCompleted {
		t.Errorf("status = %q, want completed", snapshots[0].Status)
	}

	if len(c.ActiveVehicles()) != 0 {
		t.Error("Expected no active vehicles after completion")
	}
}

func TestMetricsJSONKeepsZeroTravelTimes(t *testing.T) {
	c := NewCoordinator(newFakeClock().now)

	// Complete without advancing the clock so both bounds are exactly zero
	c.DispatchVehicle("v1", spatial.Coord{}, spatial.Coord{X: 1}, 1)
	c.UpdatePosition("v1", 1)

	payload, err := json.Marshal(c.Metrics())
	if err != nil {
		t.Fatalf("Expected no marshal error, got: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Expected no unmarshal error, got: %v", err)
	}
	for _, key := range []string{"min_travel_time", "max_travel_time"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected %q in metrics JSON with a completed vehicle", key)
		}
	}
}

func TestMetrics(t *testing.T) {
	clock := newFakeClock()
	c := NewCoordinator(clock.now)

	metrics := c.Metrics()
	if metrics.TotalEmergencies != 0 || metrics.AvgTravelTime != nil {
		t.Errorf("empty metrics = %+v, want zero totals and nil average", metrics)
	}

	c.DispatchVehicle("v1", spatial.Coord{}, spatial.Coord{X: 2}, 1)
	c.DispatchVehicle("v2", spatial.Coord{}, spatial.Coord{X: 4}, 2)

	metrics = c.Metrics()
	if metrics.TotalEmergencies != 2 || metrics.CompletedEmergencies != 0 {
		t.Errorf("metrics = %+v, want 2 total, 0 completed", metrics)
	}
	if metrics.AvgTravelTime != nil {
		t.Error("Expected nil average with no completions")
	}

	clock.advance(5 * time.Minute)
	c.UpdatePosition("v1", 10)
	clock.advance(5 * time.Minute)
	c.UpdatePosition("v2", 10)

	metrics = c.Metrics()
	if metrics.CompletedEmergencies != 2 {
		t.Fatalf("completed = %d, want 2", metrics.CompletedEmergencies)
	}
	if metrics.AvgTravelTime == nil || *metrics.AvgTravelTime != 450 {
		t.Errorf("avg travel time = %v, want 450", metrics.AvgTravelTime)
	}
	if metrics.MinTravelTime != 300 || metrics.MaxTravelTime != 600 {
		t.Errorf("min/max = %v/%v, want 300/600", metrics.MinTravelTime, metrics.MaxTravelTime)
	}
}
