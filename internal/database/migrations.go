package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a versioned schema change
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history of the service
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_traffic_readings",
		SQL: `
			CREATE TABLE IF NOT EXISTS traffic_readings (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				date TEXT NOT NULL,
				time TEXT NOT NULL,
				day TEXT NOT NULL DEFAULT '',
				situation TEXT NOT NULL DEFAULT 'Normal',
				car_count INTEGER NOT NULL DEFAULT 0,
				bike_count INTEGER NOT NULL DEFAULT 0,
				bus_count INTEGER NOT NULL DEFAULT 0,
				truck_count INTEGER NOT NULL DEFAULT 0,
				total INTEGER NOT NULL DEFAULT 0,
				timestamp INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_traffic_readings_timestamp
				ON traffic_readings(timestamp);
		`,
	},
	{
		Version: 2,
		Name:    "create_simulation_runs",
		SQL: `
			CREATE TABLE IF NOT EXISTS simulation_runs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id TEXT NOT NULL UNIQUE,
				grid_size INTEGER NOT NULL,
				steps INTEGER NOT NULL,
				scenario TEXT NOT NULL,
				avg_wait_time REAL NOT NULL DEFAULT 0,
				fairness_index REAL NOT NULL DEFAULT 0,
				normal_response_time REAL NOT NULL DEFAULT 0,
				emergency_response_time REAL NOT NULL DEFAULT 0,
				improvement_percent REAL NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}

// Migrate applies all pending migrations in version order
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}

		if _, err := db.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the set of applied migration versions
func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}
