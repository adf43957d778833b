package runner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/oceansim/internal/ecosystem"
	"github.com/tidewatch/oceansim/internal/observability"
	"github.com/tidewatch/oceansim/internal/persistence"
	"github.com/tidewatch/oceansim/internal/sensor"
)

const testPollInterval = 5 * time.Second

func startTestRunner(t *testing.T, pollInterval, stepEvery time.Duration) (*Runner, *Manager, *persistence.DB, *sensor.Network, *clockwork.FakeClock) {
	t.Helper()

	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr, err := NewManager(db, testLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	network := sensor.NewNetwork(99, clock)
	t.Cleanup(network.StopAll)

	r := New(mgr, network, db, pollInterval, stepEvery, testLogger(), observability.NewMetricsForTesting(), clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Both tickers must be armed before the test advances the clock.
	require.NoError(t, clock.BlockUntilContext(ctx, 2))
	return r, mgr, db, network, clock
}

func TestRunnerCollectsReadings(t *testing.T) {
	_, _, db, network, clock := startTestRunner(t, testPollInterval, time.Hour)

	z, err := db.CreateZone("Station Alpha", 36.8, -121.9, 0)
	require.NoError(t, err)
	network.Add(z.ID, z.Name, z.Latitude, z.Longitude, z.Depth)

	clock.Advance(testPollInterval)
	require.Eventually(t, func() bool {
		readings, err := db.RecentReadings(z.ID, 10)
		return err == nil && len(readings) == 1
	}, 2*time.Second, 10*time.Millisecond)

	clock.Advance(testPollInterval)
	require.Eventually(t, func() bool {
		readings, err := db.RecentReadings(z.ID, 10)
		return err == nil && len(readings) == 2
	}, 2*time.Second, 10*time.Millisecond)

	readings, err := db.RecentReadings(z.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, z.Name, readings[0].ZoneName)
	assert.NotZero(t, readings[0].Temperature)
}

func TestRunnerSkipsStoppedBuoys(t *testing.T) {
	_, _, db, network, clock := startTestRunner(t, testPollInterval, time.Hour)

	a, err := db.CreateZone("A", 10, 10, 0)
	require.NoError(t, err)
	b, err := db.CreateZone("B", 20, 20, 0)
	require.NoError(t, err)
	network.Add(a.ID, a.Name, a.Latitude, a.Longitude, a.Depth)
	network.Add(b.ID, b.Name, b.Latitude, b.Longitude, b.Depth)

	buoy, err := network.Get(b.ID)
	require.NoError(t, err)
	buoy.Stop()

	clock.Advance(testPollInterval)
	require.Eventually(t, func() bool {
		readings, err := db.RecentReadings(a.ID, 10)
		return err == nil && len(readings) == 1
	}, 2*time.Second, 10*time.Millisecond)

	stopped, err := db.RecentReadings(b.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, stopped)
}

func TestRunnerStepsRunningSimulations(t *testing.T) {
	stepEvery := 10 * time.Second
	_, mgr, db, _, clock := startTestRunner(t, time.Hour, stepEvery)

	sim, err := mgr.Create("background", "", "", ecosystem.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, mgr.SetRunning(sim.ID, true))

	clock.Advance(stepEvery)
	require.Eventually(t, func() bool {
		row, err := db.GetSimulation(sim.ID)
		return err == nil && row.Week == 1
	}, 2*time.Second, 10*time.Millisecond)

	records, err := db.History(sim.ID, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Week)
}

func TestRunnerReadiness(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mgr, err := NewManager(db, testLogger(), observability.NewMetricsForTesting())
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()
	network := sensor.NewNetwork(1, clock)
	r := New(mgr, network, db, time.Second, time.Second, testLogger(), observability.NewMetricsForTesting(), clock)

	require.Error(t, r.CheckReadiness(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return r.CheckReadiness(context.Background()) == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
