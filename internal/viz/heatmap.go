package viz

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/jengzang/traffic-backend-go/internal/models"
)

// Default anchor for the geo projection: the grid's south-west corner is
// pinned to this city-center coordinate (Guangzhou).
var DefaultAnchor = s2.LatLngFromDegrees(23.1291, 113.2644)

// Spacing between adjacent intersections in the projection, in meters
const cellSpacingMeters = 500

const earthRadiusMeters = 6371000

// HeatmapPoints projects every intersection of a grid snapshot onto map
// coordinates around the anchor and weights each point by its waiting load,
// normalized to [0,1]. The output feeds map-based heat layers directly.
func HeatmapPoints(snapshot models.GridSnapshot, anchor s2.LatLng) []models.HeatmapPoint {
	maxWaiting := 0
	for _, ctrl := range snapshot.Controllers {
		if ctrl.TotalWaiting > maxWaiting {
			maxWaiting = ctrl.TotalWaiting
		}
	}

	points := make([]models.HeatmapPoint, 0, len(snapshot.Controllers))
	for _, ctrl := range snapshot.Controllers {
		ll := offsetLatLng(anchor, float64(ctrl.Location.X)*cellSpacingMeters, float64(ctrl.Location.Y)*cellSpacingMeters)

		intensity := 0.0
		if maxWaiting > 0 {
			intensity = float64(ctrl.TotalWaiting) / float64(maxWaiting)
		}

		points = append(points, models.HeatmapPoint{
			Latitude:  ll.Lat.Degrees(),
			Longitude: ll.Lng.Degrees(),
			Intensity: intensity,
		})
	}
	return points
}

// offsetLatLng shifts a coordinate east and north by the given distances.
// A local flat-earth approximation is plenty at sub-kilometer grid scale.
func offsetLatLng(origin s2.LatLng, eastMeters, northMeters float64) s2.LatLng {
	dLat := northMeters / earthRadiusMeters
	dLng := eastMeters / (earthRadiusMeters * math.Cos(origin.Lat.Radians()))

	return s2.LatLng{
		Lat: origin.Lat + s1.Angle(dLat),
		Lng: origin.Lng + s1.Angle(dLng),
	}
}
