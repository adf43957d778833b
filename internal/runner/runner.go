// Package runner hosts the live simulation engines and the background loop
// that advances them and collects sensor readings.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tidewatch/oceansim/internal/observability"
	"github.com/tidewatch/oceansim/internal/persistence"
	"github.com/tidewatch/oceansim/internal/sensor"
)

// Runner drives the background cadence: sampling every active buoy on one
// ticker and stepping running simulations on another.
type Runner struct {
	mgr     *Manager
	network *sensor.Network
	db      *persistence.DB
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	pollInterval time.Duration
	stepEvery    time.Duration

	ready atomic.Bool
}

// New wires a runner. It does not start anything; call Run.
func New(mgr *Manager, network *sensor.Network, db *persistence.DB, pollInterval, stepEvery time.Duration, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Runner {
	return &Runner{
		mgr:          mgr,
		network:      network,
		db:           db,
		logger:       logger,
		metrics:      metrics,
		clock:        clock,
		pollInterval: pollInterval,
		stepEvery:    stepEvery,
	}
}

// CheckReadiness returns nil once the background loop is running.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("runner has not started yet")
	}
	return nil
}

// Run blocks until the context is canceled.
func (r *Runner) Run(ctx context.Context) {
	r.metrics.PollerRunning.Set(1)
	defer r.metrics.PollerRunning.Set(0)

	poll := r.clock.NewTicker(r.pollInterval)
	defer poll.Stop()
	step := r.clock.NewTicker(r.stepEvery)
	defer step.Stop()

	r.ready.Store(true)
	r.logger.Info("runner started", "poll_interval", r.pollInterval, "step_every", r.stepEvery)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return
		case <-poll.Chan():
			r.collect()
		case <-step.Chan():
			r.stepSims()
		}
	}
}

// collect samples every active buoy once and stores the batch.
func (r *Runner) collect() {
	start := r.clock.Now()

	batch := r.network.SnapshotAll()
	r.metrics.ActiveBuoys.Set(float64(len(batch)))

	if len(batch) == 0 {
		return
	}
	if err := r.db.InsertReadings(batch); err != nil {
		r.logger.Error("failed to store readings", "error", err)
		return
	}

	r.metrics.ReadingsCollected.Add(float64(len(batch)))
	r.metrics.PollDuration.Observe(r.clock.Since(start).Seconds())
	r.logger.Debug("readings collected", "buoys", len(batch))
}

// stepSims advances every running simulation one week.
func (r *Runner) stepSims() {
	start := r.clock.Now()
	stepped := r.mgr.StepRunning()
	if stepped == 0 {
		return
	}
	r.metrics.StepDuration.Observe(r.clock.Since(start).Seconds())
	r.logger.Debug("simulations stepped", "count", stepped)
}
