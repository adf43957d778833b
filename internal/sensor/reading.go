// Package sensor simulates smart buoy telemetry: synthetic oceanographic
// readings with diurnal and seasonal structure, event overlays for unusual
// conditions, and a registry of simulated devices keyed by monitoring zone.
package sensor

import (
	"math"
	"time"
)

// Reading is one multi-channel sample from a simulated buoy. Channel values
// are rounded to two decimals at generation; event overlays applied
// afterwards keep whatever precision the transform arithmetic produces.
type Reading struct {
	ZoneID             int64     `json:"zone_id,omitempty" db:"zone_id"`
	ZoneName           string    `json:"zone_name,omitempty" db:"zone_name"`
	Temperature        float64   `json:"temperature" db:"temperature"`
	Salinity           float64   `json:"salinity" db:"salinity"`
	PH                 float64   `json:"ph" db:"ph"`
	DissolvedOxygen    float64   `json:"dissolved_oxygen" db:"dissolved_oxygen"`
	Turbidity          float64   `json:"turbidity" db:"turbidity"`
	Nitrate            float64   `json:"nitrate" db:"nitrate"`
	Phosphate          float64   `json:"phosphate" db:"phosphate"`
	Silicate           float64   `json:"silicate" db:"silicate"`
	PhytoplanktonCount float64   `json:"phytoplankton_count" db:"phytoplankton_count"`
	BacteriaCount      float64   `json:"bacteria_count" db:"bacteria_count"`
	Event              string    `json:"event,omitempty" db:"event"`
	Timestamp          time.Time `json:"timestamp" db:"recorded_at"`
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
