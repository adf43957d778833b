package sensor

import (
	"math"

	"github.com/jonboulle/clockwork"

	"github.com/tidewatch/oceansim/internal/noise"
)

// Config holds the calibration of one simulated sensor head.
type Config struct {
	BaseTemperature float64 // surface temperature around which the diurnal/seasonal cycles swing
	BaseSalinity    float64 // PSU
	Latitude        float64 // degrees, positive north
	Depth           float64 // meters below surface
}

// DefaultConfig returns a mid-latitude surface mooring.
func DefaultConfig() Config {
	return Config{
		BaseTemperature: 20.0,
		BaseSalinity:    35.0,
		Latitude:        35.0,
		Depth:           0.0,
	}
}

// Generator produces synthetic readings for a single sensor head. Every
// reading advances the device clock by one hour, so consecutive calls walk
// through day/night and seasonal cycles. Not safe for concurrent use; the
// owning buoy serializes access.
type Generator struct {
	cfg   Config
	hours int // simulated hours since deployment
	rng   noise.Source
	clock clockwork.Clock
}

// NewGenerator creates a generator with an injected noise source and clock.
func NewGenerator(cfg Config, rng noise.Source, clock clockwork.Clock) *Generator {
	return &Generator{cfg: cfg, rng: rng, clock: clock}
}

// Reading generates the next hourly sample. Channels are correlated the way
// a real mooring would be: oxygen tracks temperature inversely and lags the
// light cycle by half a day, phytoplankton counts rise during daylight.
func (g *Generator) Reading() Reading {
	hour := float64(g.hours % 24)
	day := float64((g.hours / 24) % 365)

	diurnal := 2.0 * math.Sin(2*math.Pi*hour/24)
	seasonal := 5.0 * math.Sin(2*math.Pi*day/365)
	temperature := g.cfg.BaseTemperature + diurnal + seasonal - 0.05*g.cfg.Depth + g.rng.Normal(0, 0.3)

	salinity := g.cfg.BaseSalinity + g.rng.Normal(0, 0.2)

	biologicalCycle := 0.1 * math.Sin(2*math.Pi*hour/24)
	ph := 8.1 + biologicalCycle + g.rng.Normal(0, 0.05)

	// Oxygen peaks at night: less respiration, and colder water holds more.
	dayNightCycle := 1.0 * math.Sin(2*math.Pi*(hour+12)/24)
	doBase := 10.0 - (temperature-20)*0.2
	dissolvedOxygen := math.Max(4.0, doBase+dayNightCycle+g.rng.Normal(0, 0.3))

	turbidity := math.Max(0.1, 1.5+g.rng.Normal(0, 0.3))

	nitrate := math.Max(0, 5.0+g.rng.Normal(0, 1.0))
	phosphate := math.Max(0, 1.5+g.rng.Normal(0, 0.3))
	silicate := math.Max(0, 8.0+g.rng.Normal(0, 1.5))

	phytoMultiplier := 0.8
	if hour >= 6 && hour <= 18 {
		phytoMultiplier = 1.5
	}
	phytoplankton := math.Max(0, 1000*phytoMultiplier+g.rng.Normal(0, 200))
	bacteria := math.Max(0, 5000+g.rng.Normal(0, 800))

	g.hours++

	return Reading{
		Temperature:        roundTo(temperature, 2),
		Salinity:           roundTo(salinity, 2),
		PH:                 roundTo(ph, 2),
		DissolvedOxygen:    roundTo(dissolvedOxygen, 2),
		Turbidity:          roundTo(turbidity, 2),
		Nitrate:            roundTo(nitrate, 2),
		Phosphate:          roundTo(phosphate, 2),
		Silicate:           roundTo(silicate, 2),
		PhytoplanktonCount: roundTo(phytoplankton, 2),
		BacteriaCount:      roundTo(bacteria, 2),
		Timestamp:          g.clock.Now().UTC(),
	}
}

// Hours reports how many readings the generator has produced.
func (g *Generator) Hours() int {
	return g.hours
}
