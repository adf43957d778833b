package ecosystem

import "math"

// GrowthFactors are dimensionless multipliers describing how favorable each
// environmental variable currently is for biological growth. All are
// non-negative; only the oxygen factor is capped at 1.
type GrowthFactors struct {
	Temperature float64 `json:"temperature"`
	Nutrients   float64 `json:"nutrients"`
	Light       float64 `json:"light"`
	PH          float64 `json:"ph"`
	Oxygen      float64 `json:"oxygen"`
}

// CalculateGrowthFactors derives the factor set from an environmental state.
// Pure function: identical input always yields identical output, which the
// downstream stepping formulas rely on for reproducibility.
func CalculateGrowthFactors(env EnvironmentalState) GrowthFactors {
	tempDev := env.Temperature - tempOptimum
	phDev := env.PH - phOptimum

	return GrowthFactors{
		// Gaussian response, optimum 20°C.
		Temperature: math.Exp(-(tempDev * tempDev) / tempCurveWidth),
		// Monod kinetics, half-saturation 20.
		Nutrients: env.Nutrients / (env.Nutrients + nutrientHalfSat),
		// Monod kinetics, half-saturation 30.
		Light: env.Light / (env.Light + lightHalfSat),
		// Gaussian response, optimum 8.1.
		PH: math.Exp(-(phDev * phDev) / phCurveWidth),
		// Linear up to saturation at 8 mg/L.
		Oxygen: math.Min(1.0, env.DissolvedOxygen/oxygenSaturated),
	}
}
