package runner

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/oceansim/internal/ecosystem"
	"github.com/tidewatch/oceansim/internal/observability"
	"github.com/tidewatch/oceansim/internal/persistence"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*Manager, *persistence.DB) {
	t.Helper()
	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr, err := NewManager(db, testLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	return mgr, db
}

func TestManagerCreateAndSnapshot(t *testing.T) {
	mgr, _ := newTestManager(t)

	row, err := mgr.Create("baseline", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)

	snap, err := mgr.Snapshot(row.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Week)
	assert.Equal(t, 1000.0, snap.Populations.Phytoplankton)
	assert.Equal(t, 500.0, snap.Populations.Zooplankton)
	assert.Equal(t, 2000.0, snap.Populations.Bacteria)

	list, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, row.ID, list[0].ID)
}

func TestManagerStepPersistsAcrossRestart(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr, err := NewManager(db, testLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)

	row, err := mgr.Create("restartable", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)

	snap, err := mgr.Step(row.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Week)

	// A second manager over the same database resumes at the saved state.
	mgr2, err := NewManager(db, testLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	snap2, err := mgr2.Snapshot(row.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, snap2)

	records, err := mgr2.History(row.ID, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Week)
	assert.Equal(t, 3, records[2].Week)
}

func TestManagerStepAppendsOnlyNewHistory(t *testing.T) {
	mgr, _ := newTestManager(t)

	row, err := mgr.Create("incremental", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)

	_, err = mgr.Step(row.ID, 3)
	require.NoError(t, err)
	_, err = mgr.Step(row.ID, 2)
	require.NoError(t, err)

	records, err := mgr.History(row.ID, 0)
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, i+1, rec.Week)
	}
}

func TestManagerPredictDoesNotMutate(t *testing.T) {
	mgr, _ := newTestManager(t)

	row, err := mgr.Create("forecast", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)

	proj, err := mgr.Predict(row.ID, 10)
	require.NoError(t, err)
	require.Len(t, proj, 10)

	snap, err := mgr.Snapshot(row.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Week)

	records, err := mgr.History(row.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestManagerUpdateEnvironmentPersists(t *testing.T) {
	mgr, db := newTestManager(t)

	row, err := mgr.Create("tunable", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)

	temp := 28.0
	snap, err := mgr.UpdateEnvironment(row.ID, ecosystem.EnvUpdate{Temperature: &temp})
	require.NoError(t, err)
	assert.Equal(t, 28.0, snap.Environment.Temperature)

	stored, err := db.GetSimulation(row.ID)
	require.NoError(t, err)
	assert.Equal(t, 28.0, stored.Temperature)
}

func TestManagerResetClearsHistory(t *testing.T) {
	mgr, _ := newTestManager(t)

	row, err := mgr.Create("resettable", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)

	temp := 30.0
	_, err = mgr.UpdateEnvironment(row.ID, ecosystem.EnvUpdate{Temperature: &temp})
	require.NoError(t, err)
	_, err = mgr.Step(row.ID, 4)
	require.NoError(t, err)

	snap, err := mgr.Reset(row.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Week)
	assert.Equal(t, 1000.0, snap.Populations.Phytoplankton)
	assert.Equal(t, 30.0, snap.Environment.Temperature)

	records, err := mgr.History(row.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Stepping after a reset starts the stored history over at week one.
	_, err = mgr.Step(row.ID, 2)
	require.NoError(t, err)
	records, err = mgr.History(row.ID, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Week)
}

func TestManagerStepRunning(t *testing.T) {
	mgr, db := newTestManager(t)

	active, err := mgr.Create("active", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)
	idle, err := mgr.Create("idle", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)

	require.NoError(t, mgr.SetRunning(active.ID, true))
	running, err := mgr.Running(active.ID)
	require.NoError(t, err)
	assert.True(t, running)

	assert.Equal(t, 1, mgr.StepRunning())
	assert.Equal(t, 1, mgr.StepRunning())

	snap, err := mgr.Snapshot(active.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Week)

	snap, err = mgr.Snapshot(idle.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Week)

	stored, err := db.GetSimulation(active.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Week)
	assert.True(t, stored.Running)

	require.NoError(t, mgr.SetRunning(active.ID, false))
	assert.Equal(t, 0, mgr.StepRunning())
}

func TestManagerDelete(t *testing.T) {
	mgr, _ := newTestManager(t)

	row, err := mgr.Create("doomed", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)
	_, err = mgr.Step(row.ID, 2)
	require.NoError(t, err)

	require.NoError(t, mgr.Delete(row.ID))

	_, err = mgr.Snapshot(row.ID)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	_, err = mgr.Row(row.ID)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.Equal(t, 0, mgr.StepRunning())
}

func TestManagerUnknownSimulation(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.Snapshot(99)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	_, err = mgr.Step(99, 1)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	_, err = mgr.Predict(99, 5)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	_, err = mgr.Recommendations(99)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	_, err = mgr.Reset(99)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	_, err = mgr.History(99, 0)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
	assert.ErrorIs(t, mgr.SetRunning(99, true), persistence.ErrNotFound)
	assert.ErrorIs(t, mgr.Delete(99), persistence.ErrNotFound)
}
