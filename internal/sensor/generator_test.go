package sensor

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/oceansim/internal/noise"
)

var testDeployTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newZeroNoiseGenerator(cfg Config) *Generator {
	return NewGenerator(cfg, noise.Zero{}, clockwork.NewFakeClockAt(testDeployTime))
}

func TestReadingDeterministicComponents(t *testing.T) {
	g := newZeroNoiseGenerator(DefaultConfig())

	// Hour zero: every cyclic term is at its zero crossing, so with noise
	// stubbed out each channel sits exactly on its base value.
	r := g.Reading()
	assert.Equal(t, 20.0, r.Temperature)
	assert.Equal(t, 35.0, r.Salinity)
	assert.Equal(t, 8.1, r.PH)
	assert.Equal(t, 10.0, r.DissolvedOxygen)
	assert.Equal(t, 1.5, r.Turbidity)
	assert.Equal(t, 5.0, r.Nitrate)
	assert.Equal(t, 1.5, r.Phosphate)
	assert.Equal(t, 8.0, r.Silicate)
	assert.Equal(t, 800.0, r.PhytoplanktonCount)
	assert.Equal(t, 5000.0, r.BacteriaCount)
	assert.Equal(t, testDeployTime, r.Timestamp)

	// Hour one: diurnal terms move by sin(2*pi/24).
	r = g.Reading()
	assert.Equal(t, 20.52, r.Temperature)
	assert.Equal(t, 8.13, r.PH)
	assert.Equal(t, 9.64, r.DissolvedOxygen)
}

func TestReadingAdvancesOneHourPerCall(t *testing.T) {
	g := newZeroNoiseGenerator(DefaultConfig())

	for i := 0; i < 30; i++ {
		assert.Equal(t, i, g.Hours())
		g.Reading()
	}
	assert.Equal(t, 30, g.Hours())
}

func TestReadingDaylightPhytoplankton(t *testing.T) {
	g := newZeroNoiseGenerator(DefaultConfig())

	counts := make([]float64, 0, 24)
	for i := 0; i < 24; i++ {
		counts = append(counts, g.Reading().PhytoplanktonCount)
	}

	for hour, count := range counts {
		if hour >= 6 && hour <= 18 {
			assert.Equal(t, 1500.0, count, "hour %d", hour)
		} else {
			assert.Equal(t, 800.0, count, "hour %d", hour)
		}
	}
}

func TestReadingSeasonalDrift(t *testing.T) {
	g := newZeroNoiseGenerator(DefaultConfig())

	// Burn a full simulated day so the next reading lands on day one.
	for i := 0; i < 24; i++ {
		g.Reading()
	}

	r := g.Reading()
	assert.Equal(t, 20.09, r.Temperature)
}

func TestReadingDepthCorrection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 100

	r := newZeroNoiseGenerator(cfg).Reading()
	assert.Equal(t, 15.0, r.Temperature)
}

func TestReadingSeededReproducibility(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testDeployTime)
	a := NewGenerator(DefaultConfig(), noise.NewSeeded(42), clock)
	b := NewGenerator(DefaultConfig(), noise.NewSeeded(42), clock)

	for i := 0; i < 48; i++ {
		assert.Equal(t, a.Reading(), b.Reading(), "reading %d", i)
	}
}

func TestReadingNoiseStaysBounded(t *testing.T) {
	g := NewGenerator(DefaultConfig(), noise.NewSeeded(7), clockwork.NewFakeClockAt(testDeployTime))

	for i := 0; i < 1000; i++ {
		r := g.Reading()
		require.GreaterOrEqual(t, r.DissolvedOxygen, 4.0)
		require.GreaterOrEqual(t, r.Turbidity, 0.1)
		require.GreaterOrEqual(t, r.Nitrate, 0.0)
		require.GreaterOrEqual(t, r.Phosphate, 0.0)
		require.GreaterOrEqual(t, r.Silicate, 0.0)
		require.GreaterOrEqual(t, r.PhytoplanktonCount, 0.0)
		require.GreaterOrEqual(t, r.BacteriaCount, 0.0)

		// Noise is sigma 0.3 on a 2 degree diurnal plus 5 degree seasonal
		// swing; anything outside this envelope means a formula regression.
		require.InDelta(t, 20.0, r.Temperature, 10.0)
	}
}
