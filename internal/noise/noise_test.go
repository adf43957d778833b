package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSeededReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	other := NewSeeded(43)

	same := true
	for i := 0; i < 100; i++ {
		va, vb := a.Normal(0, 1), b.Normal(0, 1)
		assert.Equal(t, va, vb, "draw %d", i)
		if va != other.Normal(0, 1) {
			same = false
		}
	}
	assert.False(t, same, "different seeds should diverge")
}

func TestNormalAppliesMeanAndStddev(t *testing.T) {
	src := NewSeeded(7)

	var sum float64
	const n = 10000
	for i := 0; i < n; i++ {
		sum += src.Normal(5, 0.1)
	}
	assert.InDelta(t, 5.0, sum/n, 0.01)
}

func TestZeroReturnsMean(t *testing.T) {
	var z Zero
	assert.Equal(t, 0.0, z.Normal(0, 0.3))
	assert.Equal(t, 8.1, z.Normal(8.1, 0.05))
}
