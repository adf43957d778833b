package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tidewatch/oceansim/internal/ecosystem"
)

// Simulation is the persisted row for one ecosystem simulation. Populations
// and carbon are stored at full precision so a resumed engine continues the
// exact trajectory.
type Simulation struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Scenario    string    `db:"scenario" json:"scenario,omitempty"`
	Running     bool      `db:"running" json:"running"`
	Week        int       `db:"week" json:"week"`

	Temperature     float64 `db:"temperature" json:"temperature"`
	Nutrients       float64 `db:"nutrients" json:"nutrients"`
	Light           float64 `db:"light" json:"light"`
	Salinity        float64 `db:"salinity" json:"salinity"`
	PH              float64 `db:"ph" json:"ph"`
	DissolvedOxygen float64 `db:"dissolved_oxygen" json:"dissolved_oxygen"`

	Phytoplankton float64 `db:"phytoplankton" json:"phytoplankton"`
	Zooplankton   float64 `db:"zooplankton" json:"zooplankton"`
	Bacteria      float64 `db:"bacteria" json:"bacteria"`
	TotalCarbon   float64 `db:"total_carbon" json:"total_carbon"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Environment reconstructs the engine-facing environmental state.
func (s *Simulation) Environment() ecosystem.EnvironmentalState {
	return ecosystem.EnvironmentalState{
		Temperature:     s.Temperature,
		Nutrients:       s.Nutrients,
		Light:           s.Light,
		Salinity:        s.Salinity,
		PH:              s.PH,
		DissolvedOxygen: s.DissolvedOxygen,
	}
}

// Populations reconstructs the engine-facing population state.
func (s *Simulation) Populations() ecosystem.PopulationState {
	return ecosystem.PopulationState{
		Phytoplankton: s.Phytoplankton,
		Zooplankton:   s.Zooplankton,
		Bacteria:      s.Bacteria,
	}
}

// Engine builds a live engine positioned at this row's saved state.
func (s *Simulation) Engine() *ecosystem.Engine {
	return ecosystem.Restore(s.Environment(), s.Populations(), s.Week, s.TotalCarbon)
}

// CreateSimulation inserts a new simulation at week zero with the model's
// initial populations and returns the stored row.
func (db *DB) CreateSimulation(name, description, scenario string, p ecosystem.Params) (*Simulation, error) {
	eng := ecosystem.New(p)
	env := eng.Environment()
	pop := eng.Populations()
	now := time.Now().UTC()

	res, err := db.conn.Exec(`INSERT INTO simulations
		(name, description, scenario, running, week,
		 temperature, nutrients, light, salinity, ph, dissolved_oxygen,
		 phytoplankton, zooplankton, bacteria, total_carbon, created_at, updated_at)
		VALUES (?, ?, ?, 0, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		name, description, scenario,
		env.Temperature, env.Nutrients, env.Light, env.Salinity, env.PH, env.DissolvedOxygen,
		pop.Phytoplankton, pop.Zooplankton, pop.Bacteria, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert simulation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetSimulation(id)
}

// GetSimulation returns one simulation row.
func (db *DB) GetSimulation(id int64) (*Simulation, error) {
	var s Simulation
	err := db.conn.Get(&s, "SELECT * FROM simulations WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("simulation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSimulations returns all simulations, oldest first.
func (db *DB) ListSimulations() ([]Simulation, error) {
	var sims []Simulation
	err := db.conn.Select(&sims, "SELECT * FROM simulations ORDER BY id")
	return sims, err
}

// SaveEngineState writes a stepped engine's state back to its row.
func (db *DB) SaveEngineState(id int64, eng *ecosystem.Engine) error {
	env := eng.Environment()
	pop := eng.Populations()

	res, err := db.conn.Exec(`UPDATE simulations SET
		week = ?, temperature = ?, nutrients = ?, light = ?, salinity = ?,
		ph = ?, dissolved_oxygen = ?, phytoplankton = ?, zooplankton = ?,
		bacteria = ?, total_carbon = ?, updated_at = ?
		WHERE id = ?`,
		eng.Week(), env.Temperature, env.Nutrients, env.Light, env.Salinity,
		env.PH, env.DissolvedOxygen, pop.Phytoplankton, pop.Zooplankton,
		pop.Bacteria, eng.TotalCarbonSequestered(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("save simulation %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("simulation %d: %w", id, ErrNotFound)
	}
	return nil
}

// SetRunning flips the background-stepping flag.
func (db *DB) SetRunning(id int64, running bool) error {
	res, err := db.conn.Exec(
		"UPDATE simulations SET running = ?, updated_at = ? WHERE id = ?",
		running, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("simulation %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteSimulation removes a simulation and its history.
func (db *DB) DeleteSimulation(id int64) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM simulation_history WHERE simulation_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM simulations WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("simulation %d: %w", id, ErrNotFound)
	}

	return tx.Commit()
}

// AppendHistory stores newly produced weekly records for a simulation.
// Callers pass only records not yet persisted.
func (db *DB) AppendHistory(simID int64, records []ecosystem.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO simulation_history
		(simulation_id, week, temperature, nutrients, ph,
		 phytoplankton, zooplankton, bacteria,
		 carbon_sequestration, biodiversity, ecosystem_health)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			simID, r.Week, r.Temperature, r.Nutrients, r.PH,
			r.Phytoplankton, r.Zooplankton, r.Bacteria,
			r.CarbonSequestration, r.Biodiversity, r.EcosystemHealth,
		)
		if err != nil {
			return fmt.Errorf("insert history week %d: %w", r.Week, err)
		}
	}

	return tx.Commit()
}

// History returns a simulation's weekly records in week order. A positive
// limit returns only the most recent weeks.
func (db *DB) History(simID int64, limit int) ([]ecosystem.HistoryRecord, error) {
	var records []ecosystem.HistoryRecord
	var err error
	if limit > 0 {
		err = db.conn.Select(&records, `SELECT week, temperature, nutrients, ph,
			phytoplankton, zooplankton, bacteria,
			carbon_sequestration, biodiversity, ecosystem_health
			FROM (SELECT * FROM simulation_history WHERE simulation_id = ?
				ORDER BY week DESC LIMIT ?)
			ORDER BY week`, simID, limit)
	} else {
		err = db.conn.Select(&records, `SELECT week, temperature, nutrients, ph,
			phytoplankton, zooplankton, bacteria,
			carbon_sequestration, biodiversity, ecosystem_health
			FROM simulation_history WHERE simulation_id = ? ORDER BY week`, simID)
	}
	return records, err
}

// ClearHistory deletes all weekly records for a simulation, for resets.
func (db *DB) ClearHistory(simID int64) error {
	_, err := db.conn.Exec("DELETE FROM simulation_history WHERE simulation_id = ?", simID)
	return err
}
