// Package ecosystem implements the ocean microbiome population-dynamics
// engine: weekly growth stepping, nutrient cycling, derived ecological
// metrics, forward projection, and rule-based advisories.
package ecosystem

import "math"

// EnvironmentalState holds the physical water-column variables the engine
// evolves. Mutable; updated only by the stepper or explicit caller overrides.
type EnvironmentalState struct {
	Temperature     float64 `json:"temperature" db:"temperature"`           // Celsius
	Nutrients       float64 `json:"nutrients" db:"nutrients"`               // % saturation, 0-100
	Light           float64 `json:"light" db:"light"`                       // % of surface light
	Salinity        float64 `json:"salinity" db:"salinity"`                 // PSU
	PH              float64 `json:"ph" db:"ph"`                             // clamped to [7.5, 8.5]
	DissolvedOxygen float64 `json:"dissolved_oxygen" db:"dissolved_oxygen"` // mg/L, clamped to [4, 12]
}

// PopulationState holds the three tracked microbial populations in relative
// abundance units. The stepper enforces floors so none ever reaches zero.
type PopulationState struct {
	Phytoplankton float64 `json:"phytoplankton" db:"phytoplankton"`
	Zooplankton   float64 `json:"zooplankton" db:"zooplankton"`
	Bacteria      float64 `json:"bacteria" db:"bacteria"`
}

// EnvUpdate is a partial environment override: only non-nil fields are
// applied. Salinity and Light never drift on their own, so overrides are the
// only way they change after construction.
type EnvUpdate struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	Nutrients       *float64 `json:"nutrients,omitempty"`
	Light           *float64 `json:"light,omitempty"`
	Salinity        *float64 `json:"salinity,omitempty"`
	PH              *float64 `json:"ph,omitempty"`
	DissolvedOxygen *float64 `json:"dissolved_oxygen,omitempty"`
}

// HistoryRecord is an immutable snapshot appended once per simulation week,
// ordered by strictly increasing week.
type HistoryRecord struct {
	Week                int     `json:"week" db:"week"`
	Temperature         float64 `json:"temperature" db:"temperature"`
	Nutrients           float64 `json:"nutrients" db:"nutrients"`
	PH                  float64 `json:"ph" db:"ph"`
	Phytoplankton       float64 `json:"phytoplankton" db:"phytoplankton"`
	Zooplankton         float64 `json:"zooplankton" db:"zooplankton"`
	Bacteria            float64 `json:"bacteria" db:"bacteria"`
	CarbonSequestration float64 `json:"carbon_sequestration" db:"carbon_sequestration"`
	Biodiversity        float64 `json:"biodiversity" db:"biodiversity"`
	EcosystemHealth     float64 `json:"ecosystem_health" db:"ecosystem_health"`
}

// MetricsSnapshot carries the derived ecological metrics for one state.
type MetricsSnapshot struct {
	CarbonSequestrationRate float64 `json:"carbon_sequestration_rate"` // kg CO2 this week
	TotalCarbonSequestered  float64 `json:"total_carbon_sequestered"`  // kg CO2 since creation/reset
	BiodiversityIndex       float64 `json:"biodiversity_index"`        // 0-1, Shannon normalized
	EcosystemHealthScore    float64 `json:"ecosystem_health_score"`    // 0-100
}

// Snapshot is the full externally visible engine state. Populations are
// rounded to 2 decimals and carbon to 4 at this boundary; internal state
// keeps full precision.
type Snapshot struct {
	Week        int                `json:"week"`
	Environment EnvironmentalState `json:"environment"`
	Populations PopulationState    `json:"populations"`
	Metrics     MetricsSnapshot    `json:"metrics"`
}

// ProjectionRecord is one hypothetical future week produced by Predict.
// Never persisted as real history.
type ProjectionRecord struct {
	Week                int     `json:"week"`
	Phytoplankton       float64 `json:"phytoplankton"`
	Zooplankton         float64 `json:"zooplankton"`
	Bacteria            float64 `json:"bacteria"`
	CarbonSequestration float64 `json:"carbon_sequestration"`
	Biodiversity        float64 `json:"biodiversity"`
	EcosystemHealth     float64 `json:"ecosystem_health"`
}

// clip bounds v to [lo, hi].
func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
