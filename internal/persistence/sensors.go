package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tidewatch/oceansim/internal/sensor"
)

// Zone is the persisted row for one monitoring zone.
type Zone struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Depth     float64   `db:"depth" json:"depth"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateZone inserts a monitoring zone and returns the stored row.
func (db *DB) CreateZone(name string, lat, lon, depth float64) (*Zone, error) {
	res, err := db.conn.Exec(`INSERT INTO sensor_zones
		(name, latitude, longitude, depth, active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)`,
		name, lat, lon, depth, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert zone: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetZone(id)
}

// GetZone returns one zone row.
func (db *DB) GetZone(id int64) (*Zone, error) {
	var z Zone
	err := db.conn.Get(&z, "SELECT * FROM sensor_zones WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("zone %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &z, nil
}

// ListZones returns all zones, oldest first.
func (db *DB) ListZones() ([]Zone, error) {
	var zones []Zone
	err := db.conn.Select(&zones, "SELECT * FROM sensor_zones ORDER BY id")
	return zones, err
}

// RemoveZone deletes a zone and its stored readings.
func (db *DB) RemoveZone(id int64) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sensor_readings WHERE zone_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM sensor_zones WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("zone %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

const readingColumns = `zone_id, zone_name, temperature, salinity, ph,
	dissolved_oxygen, turbidity, nitrate, phosphate, silicate,
	phytoplankton_count, bacteria_count, event, recorded_at`

// InsertReadings stores a batch of sensor readings.
func (db *DB) InsertReadings(readings []sensor.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO sensor_readings (` + readingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range readings {
		_, err := stmt.Exec(
			r.ZoneID, r.ZoneName, r.Temperature, r.Salinity, r.PH,
			r.DissolvedOxygen, r.Turbidity, r.Nitrate, r.Phosphate, r.Silicate,
			r.PhytoplanktonCount, r.BacteriaCount, r.Event, r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert reading zone %d: %w", r.ZoneID, err)
		}
	}

	return tx.Commit()
}

// InsertReading stores a single reading.
func (db *DB) InsertReading(r sensor.Reading) error {
	return db.InsertReadings([]sensor.Reading{r})
}

// RecentReadings returns the most recent readings for a zone, newest first.
func (db *DB) RecentReadings(zoneID int64, limit int) ([]sensor.Reading, error) {
	var readings []sensor.Reading
	err := db.conn.Select(&readings,
		"SELECT "+readingColumns+" FROM sensor_readings WHERE zone_id = ? ORDER BY id DESC LIMIT ?",
		zoneID, limit,
	)
	return readings, err
}

// LatestReadings returns the newest stored reading per zone.
func (db *DB) LatestReadings() ([]sensor.Reading, error) {
	var readings []sensor.Reading
	err := db.conn.Select(&readings,
		"SELECT "+readingColumns+` FROM sensor_readings
		WHERE id IN (SELECT MAX(id) FROM sensor_readings GROUP BY zone_id)
		ORDER BY zone_id`)
	return readings, err
}
