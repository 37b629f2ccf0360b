package repository

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/traffic-backend-go/internal/models"
)

// TrafficRepository handles database operations for traffic readings and
// implements the simulation's traffic source over sqlite.
type TrafficRepository struct {
	db *sql.DB
}

// NewTrafficRepository creates a new traffic repository
func NewTrafficRepository(db *sql.DB) *TrafficRepository {
	return &TrafficRepository{db: db}
}

const readingColumns = `id, date, time, day, situation,
	car_count, bike_count, bus_count, truck_count, total, timestamp`

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReading(row rowScanner) (models.TrafficReading, error) {
	var reading models.TrafficReading
	var ts int64

	err := row.Scan(&reading.ID, &reading.Date, &reading.Time, &reading.Day, &reading.Situation,
		&reading.CarCount, &reading.BikeCount, &reading.BusCount, &reading.TruckCount,
		&reading.Total, &ts)
	if err != nil {
		return reading, err
	}

	if ts > 0 {
		reading.Timestamp = time.Unix(ts, 0).UTC()
	}
	return reading, nil
}

// TrafficForTime returns the reading whose timestamp is closest to t
func (r *TrafficRepository) TrafficForTime(t time.Time) (models.TrafficReading, error) {
	query := fmt.Sprintf(`SELECT %s FROM traffic_readings
		ORDER BY ABS(timestamp - ?) LIMIT 1`, readingColumns)

	row := r.db.QueryRow(query, t.Unix())
	reading, err := scanReading(row)
	if err == sql.ErrNoRows {
		return models.TrafficReading{}, fmt.Errorf("no traffic readings in dataset")
	}
	if err != nil {
		return models.TrafficReading{}, fmt.Errorf("failed to query closest reading: %w", err)
	}
	return reading, nil
}

// Scenario returns the readings matching a named time-of-week filter.
// Unknown scenario names return the full dataset.
func (r *TrafficRepository) Scenario(name string) ([]models.TrafficReading, error) {
	query := fmt.Sprintf("SELECT %s FROM traffic_readings", readingColumns)

	// Hour and weekday are derived from the unix timestamp; weekday 0 is
	// Sunday in sqlite's strftime
	hour := "CAST(strftime('%H', timestamp, 'unixepoch') AS INTEGER)"
	weekday := "CAST(strftime('%w', timestamp, 'unixepoch') AS INTEGER)"

	switch name {
	case models.ScenarioMorningRush:
		query += fmt.Sprintf(" WHERE %s = 8 AND %s BETWEEN 1 AND 5", hour, weekday)
	case models.ScenarioEveningRush:
		query += fmt.Sprintf(" WHERE %s = 17 AND %s BETWEEN 1 AND 5", hour, weekday)
	case models.ScenarioWeekend:
		query += fmt.Sprintf(" WHERE %s IN (0, 6) AND %s BETWEEN 10 AND 18", weekday, hour)
	case models.ScenarioLowTraffic:
		query += fmt.Sprintf(" WHERE %s >= 23 OR %s <= 5", hour, hour)
	}

	query += " ORDER BY timestamp"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenario %q: %w", name, err)
	}
	defer rows.Close()

	var readings []models.TrafficReading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

// Count returns the number of stored readings
func (r *TrafficRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM traffic_readings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}

// InsertReadings stores a batch of readings in one transaction
func (r *TrafficRepository) InsertReadings(readings []models.TrafficReading) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO traffic_readings
		(date, time, day, situation, car_count, bike_count, bus_count, truck_count, total, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, reading := range readings {
		var ts int64
		if !reading.Timestamp.IsZero() {
			ts = reading.Timestamp.Unix()
		}
		_, err := stmt.Exec(reading.Date, reading.Time, reading.Day, reading.Situation,
			reading.CarCount, reading.BikeCount, reading.BusCount, reading.TruckCount,
			reading.Total, ts)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert reading: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit readings: %w", err)
	}
	return nil
}

// ImportCSV loads a traffic-volume CSV file into the database, adapting to
// the column order found in its header. Returns the number of rows imported.
func (r *TrafficRepository) ImportCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read dataset header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[normalizeColumn(name)] = i
	}

	var readings []models.TrafficReading
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read dataset row: %w", err)
		}

		reading := models.TrafficReading{
			Date:       field(row, col, "date"),
			Time:       field(row, col, "time"),
			Day:        field(row, col, "day"),
			Situation:  field(row, col, "trafficsituation"),
			CarCount:   intField(row, col, "carcount"),
			BikeCount:  intField(row, col, "bikecount"),
			BusCount:   intField(row, col, "buscount"),
			TruckCount: intField(row, col, "truckcount"),
			Total:      intField(row, col, "total"),
		}
		reading.Timestamp = parseReadingTime(reading.Date, reading.Time)

		if reading.Total == 0 {
			reading.Total = reading.CarCount + reading.BikeCount + reading.BusCount + reading.TruckCount
		}

		readings = append(readings, reading)
	}

	if err := r.InsertReadings(readings); err != nil {
		return 0, err
	}
	return len(readings), nil
}

// normalizeColumn maps header variants onto canonical column keys
func normalizeColumn(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "")
	switch key {
	case "dayoftheweek":
		return "day"
	case "timeinhour":
		return "time"
	}
	return key
}

func field(row []string, col map[string]int, key string) string {
	i, ok := col[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func intField(row []string, col map[string]int, key string) int {
	v, err := strconv.Atoi(field(row, col, key))
	if err != nil {
		return 0
	}
	return v
}

// parseReadingTime combines the raw date and time columns into a timestamp.
// The zero time is returned when no known layout matches; downstream
// consumers fall back to the raw time string.
func parseReadingTime(date, rawTime string) time.Time {
	layouts := []string{
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 3:04:05 PM",
		"2/1/2006 15:04",
	}

	combined := strings.TrimSpace(date + " " + rawTime)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, combined); err == nil {
			return t
		}
	}
	return time.Time{}
}
