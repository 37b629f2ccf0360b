package models

import "time"

// TrafficReading represents one aggregate traffic measurement from the dataset
type TrafficReading struct {
	ID int64 `json:"id,omitempty" db:"id"`

	// Raw dataset fields
	Date      string `json:"date" db:"date"`       // e.g. 2023-01-01
	Time      string `json:"time" db:"time"`       // e.g. 08:15 or 8:15:00 AM
	Day       string `json:"day" db:"day"`         // Day name
	Situation string `json:"situation" db:"situation"` // Heavy, High, Normal, Low

	// Vehicle counts
	CarCount   int `json:"car_count" db:"car_count"`
	BikeCount  int `json:"bike_count" db:"bike_count"`
	BusCount   int `json:"bus_count" db:"bus_count"`
	TruckCount int `json:"truck_count" db:"truck_count"`
	Total      int `json:"total" db:"total"`

	// Parsed measurement time, zero when the raw time could not be parsed
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// Traffic situation categories
const (
	SituationHeavy  = "Heavy"
	SituationHigh   = "High"
	SituationNormal = "Normal"
	SituationLow    = "Low"
)

// Named scenario filters over the dataset
const (
	ScenarioMorningRush = "rush_hour_morning"
	ScenarioEveningRush = "rush_hour_evening"
	ScenarioWeekend     = "weekend"
	ScenarioLowTraffic  = "low_traffic"
	ScenarioAll         = "all"
)

// DirectionTraffic holds the per-type vehicle counts assigned to one approach
type DirectionTraffic struct {
	Cars   int `json:"cars"`
	Bikes  int `json:"bikes"`
	Buses  int `json:"buses"`
	Trucks int `json:"trucks"`
	Total  int `json:"total"`
}
