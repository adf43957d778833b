package sensor

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewatch/oceansim/internal/noise"
)

func TestParseEvent(t *testing.T) {
	for _, ev := range Events {
		parsed, err := ParseEvent(string(ev))
		require.NoError(t, err)
		assert.Equal(t, ev, parsed)
	}

	for _, bad := range []string{"tsunami", "", "ALGAL_BLOOM", "algal bloom"} {
		_, err := ParseEvent(bad)
		require.Error(t, err, "tag %q", bad)
		assert.ErrorIs(t, err, ErrUnknownEvent)
	}
}

// pairedReadings returns one plain and one event reading generated from
// identical seeded noise, so the pair differs only by the event transform.
func pairedReadings(t *testing.T, ev Event) (Reading, Reading) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testDeployTime)
	plain := NewGenerator(DefaultConfig(), noise.NewSeeded(99), clock).Reading()

	transformed := NewGenerator(DefaultConfig(), noise.NewSeeded(99), clock).Reading()
	applyEvent(&transformed, ev)
	return plain, transformed
}

func TestApplyEventTransforms(t *testing.T) {
	t.Run("algal bloom", func(t *testing.T) {
		plain, got := pairedReadings(t, EventAlgalBloom)

		assert.Equal(t, plain.PhytoplanktonCount*5, got.PhytoplanktonCount)
		assert.Equal(t, plain.Turbidity*3, got.Turbidity)
		assert.Equal(t, plain.DissolvedOxygen*1.5, got.DissolvedOxygen)
		assert.Equal(t, plain.PH+0.2, got.PH)
		assert.Equal(t, "algal_bloom", got.Event)

		// Channels outside the transform stay exactly as generated.
		assert.Equal(t, plain.Temperature, got.Temperature)
		assert.Equal(t, plain.Salinity, got.Salinity)
		assert.Equal(t, plain.BacteriaCount, got.BacteriaCount)
	})

	t.Run("upwelling", func(t *testing.T) {
		plain, got := pairedReadings(t, EventUpwelling)

		assert.Equal(t, plain.Temperature-5, got.Temperature)
		assert.Equal(t, plain.Nitrate*3, got.Nitrate)
		assert.Equal(t, plain.Phosphate*2.5, got.Phosphate)
		assert.Equal(t, plain.PhytoplanktonCount*2, got.PhytoplanktonCount)
		assert.Equal(t, plain.PH, got.PH)
	})

	t.Run("storm", func(t *testing.T) {
		plain, got := pairedReadings(t, EventStorm)

		assert.Equal(t, plain.Turbidity*4, got.Turbidity)
		assert.Equal(t, plain.DissolvedOxygen*1.3, got.DissolvedOxygen)
		assert.Equal(t, plain.Temperature-2, got.Temperature)
		assert.Equal(t, plain.PhytoplanktonCount, got.PhytoplanktonCount)
	})

	t.Run("pollution", func(t *testing.T) {
		plain, got := pairedReadings(t, EventPollution)

		assert.Equal(t, plain.PH-0.3, got.PH)
		assert.Equal(t, plain.DissolvedOxygen*0.6, got.DissolvedOxygen)
		assert.Equal(t, plain.Turbidity*2, got.Turbidity)
		assert.Equal(t, plain.BacteriaCount*3, got.BacteriaCount)
		assert.Equal(t, plain.Nitrate, got.Nitrate)
	})
}

func TestApplyEventDoesNotReround(t *testing.T) {
	// A transformed channel keeps full arithmetic precision: 1.3 times a
	// two-decimal oxygen value generally has more than two decimals.
	r := Reading{DissolvedOxygen: 8.15}
	applyEvent(&r, EventStorm)
	assert.InDelta(t, 10.595, r.DissolvedOxygen, 1e-9)
	assert.NotEqual(t, roundTo(r.DissolvedOxygen, 2), r.DissolvedOxygen)
}
