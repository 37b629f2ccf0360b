package traffic

import (
	"sort"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/models"
)

// Source supplies aggregate traffic readings to the simulation. The engine
// only ever asks for the reading closest to its simulation clock or for a
// named scenario slice of the dataset.
type Source interface {
	TrafficForTime(t time.Time) (models.TrafficReading, error)
	Scenario(name string) ([]models.TrafficReading, error)
}

// MemorySource serves readings from an in-memory slice. It backs tests and
// the synthetic dataset path when no database is available.
type MemorySource struct {
	readings []models.TrafficReading
}

// NewMemorySource creates a source over the given readings
func NewMemorySource(readings []models.TrafficReading) *MemorySource {
	sorted := make([]models.TrafficReading, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return &MemorySource{readings: sorted}
}

// TrafficForTime returns the reading whose timestamp is closest to t
func (s *MemorySource) TrafficForTime(t time.Time) (models.TrafficReading, error) {
	if len(s.readings) == 0 {
		return models.TrafficReading{}, ErrNoReadings
	}

	best := s.readings[0]
	bestDiff := absDuration(best.Timestamp.Sub(t))
	for _, r := range s.readings[1:] {
		diff := absDuration(r.Timestamp.Sub(t))
		if diff < bestDiff {
			best = r
			bestDiff = diff
		}
	}
	return best, nil
}

// Scenario returns the readings matching a named time-of-week filter.
// Unknown names return the full dataset.
func (s *MemorySource) Scenario(name string) ([]models.TrafficReading, error) {
	var out []models.TrafficReading
	for _, r := range s.readings {
		if MatchesScenario(r, name) {
			out = append(out, r)
		}
	}
	return out, nil
}

// MatchesScenario reports whether a reading falls inside a named scenario
// window. Weekday rush hours are 8 AM and 5 PM, weekends cover daytime
// 10-18, low traffic covers 11 PM through 5 AM.
func MatchesScenario(r models.TrafficReading, name string) bool {
	if r.Timestamp.IsZero() {
		return name == models.ScenarioAll || name == ""
	}

	hour := r.Timestamp.Hour()
	weekday := r.Timestamp.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	switch name {
	case models.ScenarioMorningRush:
		return hour == 8 && !isWeekend
	case models.ScenarioEveningRush:
		return hour == 17 && !isWeekend
	case models.ScenarioWeekend:
		return isWeekend && hour >= 10 && hour <= 18
	case models.ScenarioLowTraffic:
		return hour >= 23 || hour <= 5
	default:
		return true
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
