package viz

import (
	"fmt"
	"strings"

	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/spatial"
)

// RenderGrid draws a grid snapshot as text, one cell per intersection.
// Cells show the phase axis (| for north-south green, - for east-west
// green), E when the intersection is held by an emergency corridor, and the
// waiting-vehicle count. An asterisk marks the emergency vehicle position.
func RenderGrid(snapshot models.GridSnapshot) string {
	byCoord := make(map[spatial.Coord]models.ControllerSnapshot, len(snapshot.Controllers))
	for _, ctrl := range snapshot.Controllers {
		byCoord[ctrl.Location] = ctrl
	}

	vehicleAt := make(map[spatial.Coord]bool)
	for _, em := range snapshot.Emergencies {
		if em.Status == "active" && len(em.Path) > 0 {
			vehicleAt[em.Path[em.CurrentPosition]] = true
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "step %d  %s\n", snapshot.Step, snapshot.CurrentTime)

	// Row 0 is the southern edge; render north at the top
	for y := snapshot.GridSize - 1; y >= 0; y-- {
		for x := 0; x < snapshot.GridSize; x++ {
			coord := spatial.Coord{X: x, Y: y}
			ctrl, ok := byCoord[coord]
			if !ok {
				b.WriteString("  ....  ")
				continue
			}

			marker := "|"
			if ctrl.Phase == "ew_green" {
				marker = "-"
			}
			if ctrl.EmergencyMode {
				marker = "E"
			}

			vehicle := " "
			if vehicleAt[coord] {
				vehicle = "*"
			}

			fmt.Fprintf(&b, " [%s%s%3d] ", marker, vehicle, ctrl.TotalWaiting)
		}
		b.WriteString("\n")
	}

	return b.String()
}
