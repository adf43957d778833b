package runner

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tidewatch/oceansim/internal/ecosystem"
	"github.com/tidewatch/oceansim/internal/observability"
	"github.com/tidewatch/oceansim/internal/persistence"
)

// Manager owns the live engine for every stored simulation. All stepping and
// state mutation goes through it, so concurrent requests and the background
// loop serialize per simulation.
type Manager struct {
	db      *persistence.DB
	logger  *slog.Logger
	metrics *observability.Metrics

	mu   sync.RWMutex
	sims map[int64]*managedSim
}

type managedSim struct {
	mu      sync.Mutex
	eng     *ecosystem.Engine
	running bool
}

// NewManager restores a live engine for every simulation row in the database.
func NewManager(db *persistence.DB, logger *slog.Logger, metrics *observability.Metrics) (*Manager, error) {
	rows, err := db.ListSimulations()
	if err != nil {
		return nil, fmt.Errorf("load simulations: %w", err)
	}

	m := &Manager{
		db:      db,
		logger:  logger,
		metrics: metrics,
		sims:    make(map[int64]*managedSim, len(rows)),
	}

	running := 0
	for i := range rows {
		row := &rows[i]
		m.sims[row.ID] = &managedSim{eng: row.Engine(), running: row.Running}
		if row.Running {
			running++
		}
	}
	m.metrics.RunningSims.Set(float64(running))

	logger.Info("simulations restored", "count", len(rows), "running", running)
	return m, nil
}

func (m *Manager) get(id int64) (*managedSim, error) {
	m.mu.RLock()
	ms, ok := m.sims[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("simulation %d: %w", id, persistence.ErrNotFound)
	}
	return ms, nil
}

// Create stores a new simulation and registers its live engine.
func (m *Manager) Create(name, description, scenario string, p ecosystem.Params) (*persistence.Simulation, error) {
	row, err := m.db.CreateSimulation(name, description, scenario, p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sims[row.ID] = &managedSim{eng: row.Engine()}
	m.mu.Unlock()

	m.logger.Info("simulation created", "id", row.ID, "name", name, "scenario", scenario)
	return row, nil
}

// Row returns the persisted row for one simulation.
func (m *Manager) Row(id int64) (*persistence.Simulation, error) {
	return m.db.GetSimulation(id)
}

// List returns the persisted rows for all simulations, oldest first.
func (m *Manager) List() ([]persistence.Simulation, error) {
	return m.db.ListSimulations()
}

// Snapshot returns the simulation's current rounded state.
func (m *Manager) Snapshot(id int64) (ecosystem.Snapshot, error) {
	ms, err := m.get(id)
	if err != nil {
		return ecosystem.Snapshot{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.eng.CurrentState(), nil
}

// Step advances one simulation by the given number of weeks, persisting the
// engine state and the new history rows.
func (m *Manager) Step(id int64, weeks int) (ecosystem.Snapshot, error) {
	ms, err := m.get(id)
	if err != nil {
		return ecosystem.Snapshot{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	before := len(ms.eng.History())
	snap := ms.eng.Step(weeks)
	if err := m.persist(id, ms.eng, before); err != nil {
		return ecosystem.Snapshot{}, err
	}
	if weeks > 0 {
		m.metrics.SimulationSteps.Add(float64(weeks))
	}
	return snap, nil
}

// persist writes engine state plus any history rows appended after the given
// offset. Callers hold the simulation lock.
func (m *Manager) persist(id int64, eng *ecosystem.Engine, before int) error {
	if err := m.db.SaveEngineState(id, eng); err != nil {
		return err
	}
	history := eng.History()
	if before < len(history) {
		if err := m.db.AppendHistory(id, history[before:]); err != nil {
			return err
		}
	}
	return nil
}

// Predict projects the simulation forward without mutating it.
func (m *Manager) Predict(id int64, weeks int) ([]ecosystem.ProjectionRecord, error) {
	ms, err := m.get(id)
	if err != nil {
		return nil, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.eng.Predict(weeks), nil
}

// Recommendations returns management advice for the simulation's current state.
func (m *Manager) Recommendations(id int64) ([]string, error) {
	ms, err := m.get(id)
	if err != nil {
		return nil, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.eng.Recommendations(), nil
}

// UpdateEnvironment applies a partial environment override and persists the
// result.
func (m *Manager) UpdateEnvironment(id int64, u ecosystem.EnvUpdate) (ecosystem.Snapshot, error) {
	ms, err := m.get(id)
	if err != nil {
		return ecosystem.Snapshot{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.eng.UpdateEnvironment(u)
	if err := m.db.SaveEngineState(id, ms.eng); err != nil {
		return ecosystem.Snapshot{}, err
	}
	return ms.eng.CurrentState(), nil
}

// Reset rewinds the simulation to week zero with initial populations and
// clears its stored history. Environment overrides survive the reset.
func (m *Manager) Reset(id int64) (ecosystem.Snapshot, error) {
	ms, err := m.get(id)
	if err != nil {
		return ecosystem.Snapshot{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.eng.Reset()
	if err := m.db.SaveEngineState(id, ms.eng); err != nil {
		return ecosystem.Snapshot{}, err
	}
	if err := m.db.ClearHistory(id); err != nil {
		return ecosystem.Snapshot{}, err
	}
	m.logger.Info("simulation reset", "id", id)
	return ms.eng.CurrentState(), nil
}

// SetRunning starts or stops background stepping for one simulation.
func (m *Manager) SetRunning(id int64, running bool) error {
	ms, err := m.get(id)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.running == running {
		return nil
	}
	if err := m.db.SetRunning(id, running); err != nil {
		return err
	}
	ms.running = running
	if running {
		m.metrics.RunningSims.Inc()
	} else {
		m.metrics.RunningSims.Dec()
	}
	m.logger.Info("simulation running flag changed", "id", id, "running", running)
	return nil
}

// Running reports whether background stepping is active for one simulation.
func (m *Manager) Running(id int64) (bool, error) {
	ms, err := m.get(id)
	if err != nil {
		return false, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.running, nil
}

// Delete unregisters the engine and removes the simulation and its history.
func (m *Manager) Delete(id int64) error {
	m.mu.Lock()
	ms, ok := m.sims[id]
	delete(m.sims, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("simulation %d: %w", id, persistence.ErrNotFound)
	}

	// Wait out any in-flight operation before dropping the row.
	ms.mu.Lock()
	if ms.running {
		m.metrics.RunningSims.Dec()
	}
	ms.mu.Unlock()

	if err := m.db.DeleteSimulation(id); err != nil {
		return err
	}
	m.logger.Info("simulation deleted", "id", id)
	return nil
}

// History returns stored weekly records for one simulation, oldest first.
// A positive limit returns only the most recent weeks.
func (m *Manager) History(id int64, limit int) ([]ecosystem.HistoryRecord, error) {
	if _, err := m.get(id); err != nil {
		return nil, err
	}
	return m.db.History(id, limit)
}

// StepRunning advances every running simulation by one week and reports how
// many were stepped. The background loop calls this on its cadence.
func (m *Manager) StepRunning() int {
	m.mu.RLock()
	ids := make([]int64, 0, len(m.sims))
	for id := range m.sims {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	stepped := 0
	for _, id := range ids {
		ms, err := m.get(id)
		if err != nil {
			continue // deleted since we listed
		}

		ms.mu.Lock()
		if !ms.running {
			ms.mu.Unlock()
			continue
		}
		before := len(ms.eng.History())
		ms.eng.Step(1)
		err = m.persist(id, ms.eng, before)
		ms.mu.Unlock()

		if err != nil {
			m.logger.Error("background step failed", "id", id, "error", err)
			continue
		}
		stepped++
	}

	if stepped > 0 {
		m.metrics.SimulationSteps.Add(float64(stepped))
	}
	return stepped
}
