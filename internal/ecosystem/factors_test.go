package ecosystem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateGrowthFactorsAtDefaults(t *testing.T) {
	env := EnvironmentalState{
		Temperature:     20,
		Nutrients:       50,
		Light:           75,
		Salinity:        35,
		PH:              8.1,
		DissolvedOxygen: 8,
	}

	f := CalculateGrowthFactors(env)

	assert.Equal(t, 1.0, f.Temperature)
	assert.InDelta(t, 50.0/70.0, f.Nutrients, tol)
	assert.InDelta(t, 75.0/105.0, f.Light, tol)
	assert.Equal(t, 1.0, f.PH)
	assert.Equal(t, 1.0, f.Oxygen)
}

func TestGrowthFactorCurves(t *testing.T) {
	base := EnvironmentalState{Temperature: 20, Nutrients: 50, Light: 75, Salinity: 35, PH: 8.1, DissolvedOxygen: 8}

	t.Run("temperature response is symmetric around the optimum", func(t *testing.T) {
		cold, warm := base, base
		cold.Temperature = 10
		warm.Temperature = 30
		assert.InDelta(t, math.Exp(-1), CalculateGrowthFactors(cold).Temperature, tol)
		assert.Equal(t, CalculateGrowthFactors(cold).Temperature, CalculateGrowthFactors(warm).Temperature)
	})

	t.Run("nutrient half saturation at twenty", func(t *testing.T) {
		env := base
		env.Nutrients = 20
		assert.Equal(t, 0.5, CalculateGrowthFactors(env).Nutrients)
		env.Nutrients = 0
		assert.Zero(t, CalculateGrowthFactors(env).Nutrients)
	})

	t.Run("light half saturation at thirty", func(t *testing.T) {
		env := base
		env.Light = 30
		assert.Equal(t, 0.5, CalculateGrowthFactors(env).Light)
	})

	t.Run("ph factor decays away from optimum", func(t *testing.T) {
		env := base
		env.PH = 7.6
		assert.InDelta(t, math.Exp(-0.5), CalculateGrowthFactors(env).PH, tol)
	})

	t.Run("oxygen factor capped at one", func(t *testing.T) {
		env := base
		env.DissolvedOxygen = 4
		assert.Equal(t, 0.5, CalculateGrowthFactors(env).Oxygen)
		env.DissolvedOxygen = 16
		assert.Equal(t, 1.0, CalculateGrowthFactors(env).Oxygen)
	})
}

func TestCalculateGrowthFactorsIsPure(t *testing.T) {
	env := EnvironmentalState{Temperature: 17.3, Nutrients: 42.1, Light: 61.9, Salinity: 34.2, PH: 7.95, DissolvedOxygen: 6.4}

	first := CalculateGrowthFactors(env)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, CalculateGrowthFactors(env))
	}
}
