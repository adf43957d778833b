package sensor

import (
	"math"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/tidewatch/oceansim/internal/noise"
)

// Buoy simulates one moored smart buoy: a sensor head plus station identity.
// All methods are safe for concurrent use; a mutex serializes the generator.
type Buoy struct {
	ZoneID    int64
	Name      string
	Latitude  float64
	Longitude float64
	Depth     float64

	mu       sync.Mutex
	gen      *Generator
	active   bool
	readings int64
}

// NewBuoy creates a buoy whose base temperature follows its latitude band:
// tropical water sits near 27C, polar water near 5C.
func NewBuoy(zoneID int64, name string, lat, lon, depth float64, rng noise.Source, clock clockwork.Clock) *Buoy {
	cfg := DefaultConfig()
	cfg.BaseTemperature = baseTemperatureForLatitude(lat)
	cfg.Latitude = lat
	cfg.Depth = depth

	return &Buoy{
		ZoneID:    zoneID,
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Depth:     depth,
		gen:       NewGenerator(cfg, rng, clock),
		active:    true,
	}
}

func baseTemperatureForLatitude(lat float64) float64 {
	switch abs := math.Abs(lat); {
	case abs < 23.5: // tropics
		return 27.0
	case abs < 40: // subtropics
		return 22.0
	case abs < 60: // temperate
		return 15.0
	default: // polar
		return 5.0
	}
}

// CurrentReading generates the next sample, stamped with the buoy identity.
func (b *Buoy) CurrentReading() Reading {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.gen.Reading()
	r.ZoneID = b.ZoneID
	r.ZoneName = b.Name
	b.readings++
	return r
}

// SimulateEvent generates the next sample with an event overlay applied.
func (b *Buoy) SimulateEvent(ev Event) Reading {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := b.gen.Reading()
	applyEvent(&r, ev)
	r.ZoneID = b.ZoneID
	r.ZoneName = b.Name
	b.readings++
	return r
}

// Stop marks the buoy inactive. Readings can still be generated explicitly;
// the polling loop just skips stopped buoys.
func (b *Buoy) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = false
}

// Active reports whether the buoy participates in polling.
func (b *Buoy) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// ReadingsCount reports how many samples this buoy has produced.
func (b *Buoy) ReadingsCount() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readings
}
