package traffic

import (
	"errors"
	"testing"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/models"
)

func TestMemorySourceClosestReading(t *testing.T) {
	base := time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
	source := NewMemorySource([]models.TrafficReading{
		{Total: 100, Timestamp: base},
		{Total: 200, Timestamp: base.Add(15 * time.Minute)},
		{Total: 300, Timestamp: base.Add(30 * time.Minute)},
	})

	reading, err := source.TrafficForTime(base.Add(12 * time.Minute))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if reading.Total != 200 {
		t.Errorf("closest reading total = %d, want 200", reading.Total)
	}

	// Before the dataset start the first row is closest
	reading, _ = source.TrafficForTime(base.Add(-2 * time.Hour))
	if reading.Total != 100 {
		t.Errorf("closest reading total = %d, want 100", reading.Total)
	}
}

func TestMemorySourceEmpty(t *testing.T) {
	source := NewMemorySource(nil)

	_, err := source.TrafficForTime(time.Now())
	if !errors.Is(err, ErrNoReadings) {
		t.Errorf("Expected ErrNoReadings, got: %v", err)
	}
}

func TestScenarioFilters(t *testing.T) {
	readings := GenerateWeek(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)) // a Monday
	source := NewMemorySource(readings)

	morning, err := source.Scenario(models.ScenarioMorningRush)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	for _, r := range morning {
		if r.Timestamp.Hour() != 8 {
			t.Fatalf("morning rush row at hour %d", r.Timestamp.Hour())
		}
		wd := r.Timestamp.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Fatal("morning rush row on a weekend")
		}
	}
	// 5 weekdays x 4 readings in the 8 o'clock hour
	if len(morning) != 20 {
		t.Errorf("morning rush rows = %d, want 20", len(morning))
	}

	weekend, _ := source.Scenario(models.ScenarioWeekend)
	for _, r := range weekend {
		wd := r.Timestamp.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			t.Fatal("weekend row on a weekday")
		}
	}

	low, _ := source.Scenario(models.ScenarioLowTraffic)
	for _, r := range low {
		h := r.Timestamp.Hour()
		if h > 5 && h < 23 {
			t.Fatalf("low traffic row at hour %d", h)
		}
	}

	all, _ := source.Scenario(models.ScenarioAll)
	if len(all) != len(readings) {
		t.Errorf("all scenario rows = %d, want %d", len(all), len(readings))
	}
}

func TestGenerateWeekShape(t *testing.T) {
	readings := GenerateWeek(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC))

	if len(readings) != 7*24*4 {
		t.Fatalf("reading count = %d, want %d", len(readings), 7*24*4)
	}

	for _, r := range readings {
		if r.Total != r.CarCount+r.BikeCount+r.BusCount+r.TruckCount {
			t.Fatalf("inconsistent total at %s", r.Timestamp)
		}
	}

	// Rush hour is busier than the dead of night
	rush, _ := NewMemorySource(readings).TrafficForTime(time.Date(2023, 1, 2, 8, 30, 0, 0, time.UTC))
	night, _ := NewMemorySource(readings).TrafficForTime(time.Date(2023, 1, 3, 3, 0, 0, 0, time.UTC))
	if rush.Total <= night.Total {
		t.Errorf("rush total %d not above night total %d", rush.Total, night.Total)
	}
}
