package service

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/models"
	"github.com/jengzang/traffic-backend-go/internal/repository"
	"github.com/jengzang/traffic-backend-go/internal/traffic"
)

// TrafficService handles business logic for the traffic dataset
type TrafficService struct {
	trafficRepo *repository.TrafficRepository
}

// NewTrafficService creates a new traffic service
func NewTrafficService(trafficRepo *repository.TrafficRepository) *TrafficService {
	return &TrafficService{trafficRepo: trafficRepo}
}

// EnsureDataset makes sure the database holds traffic readings: an existing
// CSV dataset is imported, otherwise a synthetic week is generated.
func (s *TrafficService) EnsureDataset(datasetPath string) error {
	count, err := s.trafficRepo.Count()
	if err != nil {
		return fmt.Errorf("failed to check dataset: %w", err)
	}
	if count > 0 {
		log.Printf("Dataset ready: %d readings", count)
		return nil
	}

	if _, err := os.Stat(datasetPath); err == nil {
		imported, err := s.trafficRepo.ImportCSV(datasetPath)
		if err != nil {
			return fmt.Errorf("failed to import dataset %s: %w", datasetPath, err)
		}
		log.Printf("Imported %d readings from %s", imported, datasetPath)
		return nil
	}

	// No dataset on disk, fall back to a synthetic week
	readings := traffic.GenerateWeek(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := s.trafficRepo.InsertReadings(readings); err != nil {
		return fmt.Errorf("failed to seed synthetic dataset: %w", err)
	}
	log.Printf("Seeded %d synthetic readings", len(readings))
	return nil
}

// Scenario returns the dataset rows for a named scenario filter
func (s *TrafficService) Scenario(name string) ([]models.TrafficReading, error) {
	switch name {
	case "", models.ScenarioAll, models.ScenarioMorningRush, models.ScenarioEveningRush,
		models.ScenarioWeekend, models.ScenarioLowTraffic:
	default:
		return nil, fmt.Errorf("unknown scenario %q", name)
	}

	readings, err := s.trafficRepo.Scenario(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %q: %w", name, err)
	}
	return readings, nil
}

// ReadingAt returns the reading closest to the given time
func (s *TrafficService) ReadingAt(t time.Time) (models.TrafficReading, error) {
	reading, err := s.trafficRepo.TrafficForTime(t)
	if err != nil {
		return models.TrafficReading{}, fmt.Errorf("failed to load reading: %w", err)
	}
	return reading, nil
}
