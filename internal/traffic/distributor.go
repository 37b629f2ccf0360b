package traffic

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/spatial"
)

// ErrNoReadings is returned when a source holds no dataset rows
var ErrNoReadings = errors.New("no traffic readings available")

// Hour assumed when a reading carries no parseable time
const defaultHour = 12

// Minimum share any approach keeps after jitter
const minDirectionRatio = 0.05

// Distributor splits an aggregate traffic reading into per-approach vehicle
// counts. The split follows time-of-day base ratios with bounded random
// jitter; the random source is injected so runs are reproducible.
type Distributor struct {
	rng *rand.Rand
}

// NewDistributor creates a distributor drawing jitter from rng.
// A nil rng falls back to a time-seeded source.
func NewDistributor(rng *rand.Rand) *Distributor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Distributor{rng: rng}
}

// Distribute assigns the reading's vehicles to the four approaches.
// The resulting ratios always sum to 1; every approach keeps at least a 5%
// share before renormalization.
func (d *Distributor) Distribute(reading models.TrafficReading) [spatial.NumDirections]models.DirectionTraffic {
	base := baseDistribution(readingHour(reading))

	var ratios [spatial.NumDirections]float64
	var total float64
	for dir, baseRatio := range base {
		// ±20% of the base share
		variation := (d.rng.Float64()*0.4 - 0.2) * baseRatio
		ratio := baseRatio + variation
		if ratio < minDirectionRatio {
			ratio = minDirectionRatio
		}
		ratios[dir] = ratio
		total += ratio
	}
	for dir := range ratios {
		ratios[dir] /= total
	}

	var result [spatial.NumDirections]models.DirectionTraffic
	for dir, ratio := range ratios {
		countJitter := 0.8 + d.rng.Float64()*0.4
		result[dir] = models.DirectionTraffic{
			Cars:   int(float64(reading.CarCount) * ratio),
			Bikes:  int(float64(reading.BikeCount) * ratio),
			Buses:  int(float64(reading.BusCount) * ratio),
			Trucks: int(float64(reading.TruckCount) * ratio),
			Total:  int(float64(reading.Total) * ratio * countJitter),
		}
	}
	return result
}

// baseDistribution returns the time-of-day approach shares: morning rush is
// inbound-heavy, evening rush mirrors it outbound, otherwise uniform.
func baseDistribution(hour int) [spatial.NumDirections]float64 {
	switch {
	case hour >= 7 && hour <= 9:
		return [spatial.NumDirections]float64{0.4, 0.2, 0.3, 0.1}
	case hour >= 16 && hour <= 18:
		return [spatial.NumDirections]float64{0.2, 0.4, 0.1, 0.3}
	default:
		return [spatial.NumDirections]float64{0.25, 0.25, 0.25, 0.25}
	}
}

// readingHour extracts the hour of day from a reading, preferring the parsed
// timestamp and falling back to the raw time string. A missing or malformed
// time defaults to noon rather than failing.
func readingHour(reading models.TrafficReading) int {
	if !reading.Timestamp.IsZero() {
		return reading.Timestamp.Hour()
	}

	raw := strings.TrimSpace(reading.Time)
	if raw == "" || !strings.Contains(raw, ":") {
		return defaultHour
	}

	hourPart := strings.SplitN(raw, ":", 2)[0]
	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil || hour < 0 || hour > 23 {
		return defaultHour
	}

	upper := strings.ToUpper(raw)
	if strings.Contains(upper, "PM") && hour < 12 {
		hour += 12
	} else if strings.Contains(upper, "AM") && hour == 12 {
		hour = 0
	}

	return hour
}
