package ecosystem

import "math"

// carbonSequestration returns this week's sequestration rate in kg CO2 at
// full precision. Carbon fixed by phytoplankton partially sinks below the
// mixed layer (export efficiency), bacteria remineralize most of what sinks,
// and the remainder converts from C to CO2 mass.
func (e *Engine) carbonSequestration() float64 {
	fixed := e.pop.Phytoplankton * carbonPerPhytoUnit
	sequestered := fixed * exportEfficiency * (1 - remineralizationRate)
	return sequestered * co2PerCarbon
}

// BiodiversityIndex returns the Shannon index over the three population
// proportions, normalized by ln(3) to the 0..1 range and rounded to three
// decimals. Zero-population species drop out of the sum; an empty ecosystem
// scores 0.
func (e *Engine) BiodiversityIndex() float64 {
	total := e.pop.Phytoplankton + e.pop.Zooplankton + e.pop.Bacteria
	if total == 0 {
		return 0.0
	}

	shannon := 0.0
	for _, p := range []float64{e.pop.Phytoplankton, e.pop.Zooplankton, e.pop.Bacteria} {
		if p <= 0 {
			continue
		}
		frac := p / total
		shannon -= frac * math.Log(frac)
	}

	return roundTo(shannon/math.Log(3), 3)
}

// EcosystemHealth scores the ecosystem 0..100 from population balance,
// environmental conditions, and biodiversity, rounded to one decimal.
func (e *Engine) EcosystemHealth() float64 {
	popHealth := (1-math.Abs(e.pop.Phytoplankton-idealPhytoplankton)/idealPhytoplankton)*0.3 +
		(1-math.Abs(e.pop.Zooplankton-idealZooplankton)/idealZooplankton)*0.2 +
		(1-math.Abs(e.pop.Bacteria-idealBacteria)/idealBacteria)*0.2
	popHealth = math.Max(0, popHealth)

	tempHealth := 1 - math.Abs(e.env.Temperature-tempOptimum)/healthTempSpan
	nutrientHealth := e.env.Nutrients / 100
	phHealth := 1 - math.Abs(e.env.PH-phOptimum)/healthPHSpan
	oxygenHealth := math.Min(1.0, e.env.DissolvedOxygen/oxygenSaturated)
	envHealth := (tempHealth + nutrientHealth + phHealth + oxygenHealth) / 4 * 0.3

	biodiversityHealth := e.BiodiversityIndex() * 0.2

	return roundTo(clip((popHealth+envHealth+biodiversityHealth)*100, 0, 100), 1)
}
