package traffic

import (
	"time"

	"github.com/jengzang/traffic-backend-go/internal/models"
)

// GenerateWeek builds a synthetic 7-day dataset at 15-minute intervals,
// shaped like the Kaggle traffic-volume layout: rush-hour ramps in the
// morning and evening, quiet nights, and reduced weekend volumes. Used when
// no real dataset has been imported.
func GenerateWeek(start time.Time) []models.TrafficReading {
	readings := make([]models.TrafficReading, 0, 7*24*4)

	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			for _, minute := range []int{0, 15, 30, 45} {
				ts := start.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)

				var situation string
				var cars, bikes, buses, trucks int

				switch {
				case hour >= 7 && hour <= 9:
					// Morning rush ramp
					ramp := float64((hour-7)*60+minute) / 180
					situation = models.SituationHigh
					if minute >= 30 {
						situation = models.SituationHeavy
					}
					cars = 80 + int(30*ramp)
					bikes = 15 + int(10*ramp)
					buses = 5 + int(5*ramp)
					trucks = 10 + int(5*ramp)
				case hour >= 16 && hour <= 18:
					// Evening rush ramp
					ramp := float64((hour-16)*60+minute) / 180
					situation = models.SituationHigh
					if minute >= 30 {
						situation = models.SituationHeavy
					}
					cars = 90 + int(30*ramp)
					bikes = 10 + int(5*ramp)
					buses = 5 + int(5*ramp)
					trucks = 5 + int(3*ramp)
				case hour >= 22 || hour <= 5:
					situation = models.SituationLow
					cars = 10 + hour%5
					bikes = 2 + hour%3
					buses = 1
					trucks = 2 + hour%2
				default:
					situation = models.SituationNormal
					cars = 40 + (hour%7)*5
					bikes = 5 + (hour%5)*2
					buses = 3 + hour%3
					trucks = 5 + hour%5
				}

				if day >= 5 {
					// Weekend volumes drop
					cars = int(float64(cars) * 0.7)
					bikes = int(float64(bikes) * 0.5)
					buses = int(float64(buses) * 0.5)
					trucks = int(float64(trucks) * 0.3)
					situation = relaxSituation(situation)
				}

				readings = append(readings, models.TrafficReading{
					Date:       ts.Format("2006-01-02"),
					Time:       ts.Format("15:04"),
					Day:        ts.Weekday().String(),
					Situation:  situation,
					CarCount:   cars,
					BikeCount:  bikes,
					BusCount:   buses,
					TruckCount: trucks,
					Total:      cars + bikes + buses + trucks,
					Timestamp:  ts,
				})
			}
		}
	}

	return readings
}

// relaxSituation shifts a congestion category one step toward Low
func relaxSituation(s string) string {
	switch s {
	case models.SituationHeavy:
		return models.SituationHigh
	case models.SituationHigh:
		return models.SituationNormal
	default:
		return models.SituationLow
	}
}
