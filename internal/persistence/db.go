// Package persistence provides SQLite-based storage for simulations,
// monitoring zones, and sensor telemetry.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("persistence: not found")

// DB wraps a SQLite connection for platform state storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS simulations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		scenario TEXT NOT NULL DEFAULT '',
		running INTEGER NOT NULL DEFAULT 0,
		week INTEGER NOT NULL DEFAULT 0,
		temperature REAL NOT NULL,
		nutrients REAL NOT NULL,
		light REAL NOT NULL,
		salinity REAL NOT NULL,
		ph REAL NOT NULL,
		dissolved_oxygen REAL NOT NULL,
		phytoplankton REAL NOT NULL,
		zooplankton REAL NOT NULL,
		bacteria REAL NOT NULL,
		total_carbon REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS simulation_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		simulation_id INTEGER NOT NULL,
		week INTEGER NOT NULL,
		temperature REAL NOT NULL,
		nutrients REAL NOT NULL,
		ph REAL NOT NULL,
		phytoplankton REAL NOT NULL,
		zooplankton REAL NOT NULL,
		bacteria REAL NOT NULL,
		carbon_sequestration REAL NOT NULL,
		biodiversity REAL NOT NULL,
		ecosystem_health REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sensor_zones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		depth REAL NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sensor_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		zone_id INTEGER NOT NULL,
		zone_name TEXT NOT NULL DEFAULT '',
		temperature REAL NOT NULL,
		salinity REAL NOT NULL,
		ph REAL NOT NULL,
		dissolved_oxygen REAL NOT NULL,
		turbidity REAL NOT NULL,
		nitrate REAL NOT NULL,
		phosphate REAL NOT NULL,
		silicate REAL NOT NULL,
		phytoplankton_count REAL NOT NULL,
		bacteria_count REAL NOT NULL,
		event TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS platform_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_simulation ON simulation_history(simulation_id, week);
	CREATE INDEX IF NOT EXISTS idx_readings_zone ON sensor_readings(zone_id, recorded_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMeta stores a key-value pair in platform metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO platform_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM platform_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

// DashboardStats aggregates platform-wide activity for the overview screen.
type DashboardStats struct {
	Simulations int     `db:"simulations" json:"simulations"`
	RunningSims int     `db:"running_sims" json:"running_simulations"`
	Zones       int     `db:"zones" json:"active_zones"`
	Readings    int     `db:"readings" json:"sensor_readings"`
	AvgHealth   float64 `db:"avg_health" json:"average_ecosystem_health"`
	TotalCarbon float64 `db:"total_carbon" json:"total_carbon_sequestered"`
}

// Dashboard computes platform-wide aggregates in one round trip. Average
// health considers each simulation's latest history row only.
func (db *DB) Dashboard() (DashboardStats, error) {
	var s DashboardStats
	err := db.conn.Get(&s, `
		SELECT
			(SELECT COUNT(*) FROM simulations) AS simulations,
			(SELECT COUNT(*) FROM simulations WHERE running = 1) AS running_sims,
			(SELECT COUNT(*) FROM sensor_zones WHERE active = 1) AS zones,
			(SELECT COUNT(*) FROM sensor_readings) AS readings,
			(SELECT COALESCE(AVG(ecosystem_health), 0) FROM simulation_history h
				WHERE h.week = (SELECT MAX(week) FROM simulation_history
					WHERE simulation_id = h.simulation_id)) AS avg_health,
			(SELECT COALESCE(SUM(total_carbon), 0) FROM simulations) AS total_carbon
	`)
	return s, err
}
