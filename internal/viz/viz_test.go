package viz

import (
	"strings"
	"testing"

	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/spatial"
)

func testSnapshot() models.GridSnapshot {
	return models.GridSnapshot{
		Step:        3,
		CurrentTime: "2023-01-01T08:15:00Z",
		GridSize:    2,
		Controllers: []models.ControllerSnapshot{
			{IntersectionID: "intersection_0", Location: spatial.Coord{X: 0, Y: 0}, Phase: "ns_green", TotalWaiting: 40},
			{IntersectionID: "intersection_1", Location: spatial.Coord{X: 1, Y: 0}, Phase: "ew_green", TotalWaiting: 10},
			{IntersectionID: "intersection_2", Location: spatial.Coord{X: 0, Y: 1}, Phase: "ns_green", EmergencyMode: true, TotalWaiting: 0},
			{IntersectionID: "intersection_3", Location: spatial.Coord{X: 1, Y: 1}, Phase: "ew_green", TotalWaiting: 20},
		},
		Emergencies: []models.EmergencySnapshot{
			{
				VehicleID:       "medic_1",
				Path:            []spatial.Coord{{X: 1, Y: 0}, {X: 1, Y: 1}},
				CurrentPosition: 0,
				Status:          "active",
			},
		},
	}
}

func TestHeatmapPointsNormalized(t *testing.T) {
	points := HeatmapPoints(testSnapshot(), DefaultAnchor)

	if len(points) != 4 {
		t.Fatalf("point count = %d, want 4", len(points))
	}

	var maxIntensity float64
	for _, p := range points {
		if p.Intensity < 0 || p.Intensity > 1 {
			t.Errorf("intensity %v outside [0,1]", p.Intensity)
		}
		if p.Intensity > maxIntensity {
			maxIntensity = p.Intensity
		}
	}
	if maxIntensity != 1.0 {
		t.Errorf("max intensity = %v, want 1.0", maxIntensity)
	}

	// The anchor pins the south-west corner
	if points[0].Latitude != DefaultAnchor.Lat.Degrees() || points[0].Longitude != DefaultAnchor.Lng.Degrees() {
		t.Error("first point not at the anchor")
	}

	// Eastern neighbors shift east, northern rows shift north
	if points[1].Longitude <= points[0].Longitude {
		t.Error("eastern cell did not shift east")
	}
	if points[2].Latitude <= points[0].Latitude {
		t.Error("northern cell did not shift north")
	}
}

func TestHeatmapPointsAllQuiet(t *testing.T) {
	snapshot := testSnapshot()
	for i := range snapshot.Controllers {
		snapshot.Controllers[i].TotalWaiting = 0
	}

	for _, p := range HeatmapPoints(snapshot, DefaultAnchor) {
		if p.Intensity != 0 {
			t.Errorf("intensity = %v, want 0 for a quiet grid", p.Intensity)
		}
	}
}

func TestRenderGrid(t *testing.T) {
	out := RenderGrid(testSnapshot())

	if !strings.Contains(out, "step 3") {
		t.Error("missing step header")
	}
	// Emergency-held cell
	if !strings.Contains(out, "E") {
		t.Error("missing emergency marker")
	}
	// Vehicle position marker
	if !strings.Contains(out, "*") {
		t.Error("missing vehicle marker")
	}
	// Two grid rows plus the header
	if lines := strings.Count(strings.TrimRight(out, "\n"), "\n"); lines != 2 {
		t.Errorf("line breaks = %d, want 2", lines)
	}
}
