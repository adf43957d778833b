// All tunable model constants in one place. These are fixed design
// parameters, not calibrated oceanography; changing any of them changes
// every downstream trajectory, so treat them as part of the model contract.
package ecosystem

// Growth factor response curves.
const (
	tempOptimum     = 20.0  // °C, Gaussian optimum
	tempCurveWidth  = 100.0 // Gaussian denominator for temperature
	nutrientHalfSat = 20.0  // Monod half-saturation, % saturation
	lightHalfSat    = 30.0  // Monod half-saturation, % surface light
	phOptimum       = 8.1   // Gaussian optimum
	phCurveWidth    = 0.5   // Gaussian denominator for pH
	oxygenSaturated = 8.0   // mg/L at which the oxygen factor reaches 1
)

// Weekly population dynamics.
const (
	phytoNutrientWeight = 0.4
	phytoLightWeight    = 0.35
	phytoTempWeight     = 0.25
	phytoGrowthScale    = 0.15
	phytoMortality      = 0.05
	grazingRate         = 0.00015 // phytoplankton lost per zooplankton unit

	zooFoodSaturation = 2000.0 // phytoplankton level at which food is unlimited
	zooGrowthScale    = 0.12
	zooMortality      = 0.08

	organicFromPhyto     = 0.0001
	organicFromZoo       = 0.0002
	bacteriaOrganicScale = 0.15
	bacteriaNutrientGain = 0.08
	bacteriaMortality    = 0.03
)

// Population floors: populations never reach zero or go negative.
const (
	phytoFloor    = 100.0
	zooFloor      = 50.0
	bacteriaFloor = 500.0
)

// Nutrient, pH, and oxygen cycling.
const (
	nutrientUptakeRate = 0.00012 // per phytoplankton unit
	nutrientRegenRate  = 0.00008 // per bacteria unit
	nutrientInflux     = 0.5     // constant weekly resupply

	phPhotosynthesisScale = 0.01
	phRespirationScale    = 0.005

	oxygenProductionRate  = 0.0001  // per phytoplankton unit
	oxygenConsumptionRate = 0.00005 // per zooplankton+bacteria unit
)

// Post-update clamp ranges.
const (
	phMin, phMax             = 7.5, 8.5
	oxygenMin, oxygenMax     = 4.0, 12.0
	nutrientMin, nutrientMax = 0.0, 100.0
)

// Carbon sequestration model.
const (
	carbonPerPhytoUnit   = 0.001 // kg C fixed per phytoplankton unit per week
	exportEfficiency     = 0.15  // fraction sinking to the deep ocean
	remineralizationRate = 0.60  // fraction returned as CO2 by bacteria
	co2PerCarbon         = 44.0 / 12.0
)

// Ecosystem health reference points.
const (
	idealPhytoplankton = 1500.0
	idealZooplankton   = 700.0
	idealBacteria      = 2200.0

	healthTempSpan = 20.0 // °C deviation at which temperature health hits 0
	healthPHSpan   = 1.5  // pH deviation scale
)

// Construction defaults. Temperature, nutrients, light, and salinity come
// from the caller (or DefaultParams); pH and oxygen always start here.
const (
	DefaultTemperature = 20.0
	DefaultNutrients   = 50.0
	DefaultLight       = 75.0
	DefaultSalinity    = 35.0

	initialPH     = 8.1
	initialOxygen = 8.0

	initialPhytoplankton = 1000.0
	initialZooplankton   = 500.0
	initialBacteria      = 2000.0
)
