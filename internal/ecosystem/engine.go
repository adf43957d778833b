package ecosystem

import "math"

// Engine owns one simulated ecosystem: its environment, its populations, the
// week counter, and the append-only history. An Engine instance is not safe
// for concurrent use; callers must serialize Step/Predict/Reset per instance.
type Engine struct {
	env         EnvironmentalState
	pop         PopulationState
	week        int
	history     []HistoryRecord
	totalCarbon float64 // cumulative kg CO2 sequestered since creation/reset
}

// New creates an engine from the given construction parameters. pH, oxygen,
// and the initial populations always start from the model defaults.
func New(p Params) *Engine {
	return &Engine{
		env: EnvironmentalState{
			Temperature:     p.Temperature,
			Nutrients:       p.Nutrients,
			Light:           p.Light,
			Salinity:        p.Salinity,
			PH:              initialPH,
			DissolvedOxygen: initialOxygen,
		},
		pop: PopulationState{
			Phytoplankton: initialPhytoplankton,
			Zooplankton:   initialZooplankton,
			Bacteria:      initialBacteria,
		},
	}
}

// Restore creates an engine positioned at a previously saved state, so a
// persisted simulation can continue where it left off. History restarts
// empty; the store holds the full record.
func Restore(env EnvironmentalState, pop PopulationState, week int, totalCarbon float64) *Engine {
	return &Engine{env: env, pop: pop, week: week, totalCarbon: totalCarbon}
}

// Step advances the simulation by the given number of weeks, appending one
// history record per week, and returns the resulting snapshot. weeks below 1
// is a no-op that just returns the current state.
func (e *Engine) Step(weeks int) Snapshot {
	for i := 0; i < weeks; i++ {
		e.singleStep()
	}
	return e.CurrentState()
}

// singleStep executes one weekly update. The update order is load-bearing:
// phytoplankton first, then zooplankton and bacteria using the values already
// updated this week, then nutrient/pH/oxygen cycling. Changing the order
// changes every trajectory.
func (e *Engine) singleStep() {
	f := CalculateGrowthFactors(e.env)

	// Primary producers. Grazing pressure uses last week's zooplankton.
	phytoGrowth := f.Nutrients*phytoNutrientWeight + f.Light*phytoLightWeight + f.Temperature*phytoTempWeight
	grazingLoss := e.pop.Zooplankton * grazingRate
	phytoNet := phytoGrowth*phytoGrowthScale - grazingLoss - phytoMortality
	e.pop.Phytoplankton = math.Max(phytoFloor, e.pop.Phytoplankton*(1+phytoNet))

	// Primary consumers, fed by this week's phytoplankton.
	zooFood := math.Min(1.0, e.pop.Phytoplankton/zooFoodSaturation)
	zooGrowth := zooFood*f.Temperature*zooGrowthScale - zooMortality
	e.pop.Zooplankton = math.Max(zooFloor, e.pop.Zooplankton*(1+zooGrowth))

	// Decomposers, fed by this week's organic matter.
	organicMatter := e.pop.Phytoplankton*organicFromPhyto + e.pop.Zooplankton*organicFromZoo
	bacteriaGrowth := organicMatter*f.Temperature*bacteriaOrganicScale + f.Nutrients*bacteriaNutrientGain - bacteriaMortality
	e.pop.Bacteria = math.Max(bacteriaFloor, e.pop.Bacteria*(1+bacteriaGrowth))

	// Nutrient cycling: uptake by producers, regeneration by decomposers,
	// plus a constant influx.
	e.env.Nutrients = clip(
		e.env.Nutrients-e.pop.Phytoplankton*nutrientUptakeRate+e.pop.Bacteria*nutrientRegenRate+nutrientInflux,
		nutrientMin, nutrientMax)

	// pH shifts with net photosynthesis and respiration.
	e.env.PH = clip(e.env.PH+phytoNet*phPhotosynthesisScale-bacteriaGrowth*phRespirationScale, phMin, phMax)

	// Oxygen: produced by photosynthesis, consumed by grazers and decomposers.
	e.env.DissolvedOxygen = clip(
		e.env.DissolvedOxygen+e.pop.Phytoplankton*oxygenProductionRate-(e.pop.Zooplankton+e.pop.Bacteria)*oxygenConsumptionRate,
		oxygenMin, oxygenMax)

	carbon := e.carbonSequestration()
	e.totalCarbon += carbon

	e.week++
	e.history = append(e.history, HistoryRecord{
		Week:                e.week,
		Temperature:         e.env.Temperature,
		Nutrients:           e.env.Nutrients,
		PH:                  e.env.PH,
		Phytoplankton:       e.pop.Phytoplankton,
		Zooplankton:         e.pop.Zooplankton,
		Bacteria:            e.pop.Bacteria,
		CarbonSequestration: carbon,
		Biodiversity:        e.BiodiversityIndex(),
		EcosystemHealth:     e.EcosystemHealth(),
	})
}

// CurrentState returns the externally visible snapshot of the engine.
func (e *Engine) CurrentState() Snapshot {
	return Snapshot{
		Week:        e.week,
		Environment: e.env,
		Populations: PopulationState{
			Phytoplankton: roundTo(e.pop.Phytoplankton, 2),
			Zooplankton:   roundTo(e.pop.Zooplankton, 2),
			Bacteria:      roundTo(e.pop.Bacteria, 2),
		},
		Metrics: MetricsSnapshot{
			CarbonSequestrationRate: roundTo(e.carbonSequestration(), 4),
			TotalCarbonSequestered:  roundTo(e.totalCarbon, 2),
			BiodiversityIndex:       e.BiodiversityIndex(),
			EcosystemHealthScore:    e.EcosystemHealth(),
		},
	}
}

// Environment returns the current environmental state.
func (e *Engine) Environment() EnvironmentalState {
	return e.env
}

// Populations returns the current population state at full precision.
func (e *Engine) Populations() PopulationState {
	return e.pop
}

// Week returns the number of weeks stepped since creation or reset.
func (e *Engine) Week() int {
	return e.week
}

// TotalCarbonSequestered returns the cumulative kg CO2 at full precision.
func (e *Engine) TotalCarbonSequestered() float64 {
	return e.totalCarbon
}

// History returns a copy of the per-week records. The engine exclusively
// owns the underlying slice; it only ever grows through Step.
func (e *Engine) History() []HistoryRecord {
	out := make([]HistoryRecord, len(e.history))
	copy(out, e.history)
	return out
}

// UpdateEnvironment applies a partial override, setting only the fields the
// caller named. No clamping happens here: the engine validates nothing on
// input and only clamps post-update drift during stepping.
func (e *Engine) UpdateEnvironment(u EnvUpdate) {
	if u.Temperature != nil {
		e.env.Temperature = *u.Temperature
	}
	if u.Nutrients != nil {
		e.env.Nutrients = *u.Nutrients
	}
	if u.Light != nil {
		e.env.Light = *u.Light
	}
	if u.Salinity != nil {
		e.env.Salinity = *u.Salinity
	}
	if u.PH != nil {
		e.env.PH = *u.PH
	}
	if u.DissolvedOxygen != nil {
		e.env.DissolvedOxygen = *u.DissolvedOxygen
	}
}

// Reset returns the simulation to week zero: history cleared, populations
// back to their initial values, cumulative carbon zeroed. The environment
// keeps whatever values it has drifted or been overridden to.
func (e *Engine) Reset() {
	e.week = 0
	e.history = nil
	e.totalCarbon = 0
	e.pop = PopulationState{
		Phytoplankton: initialPhytoplankton,
		Zooplankton:   initialZooplankton,
		Bacteria:      initialBacteria,
	}
}
