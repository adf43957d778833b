package sensor

import (
	"errors"
	"math/rand"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/tidewatch/oceansim/internal/noise"
)

var ErrBuoyNotFound = errors.New("sensor: buoy not found")

// Network is the registry of simulated buoys, keyed by monitoring zone id.
// It is constructed explicitly and passed to whatever layer needs device
// lookup; registry lifetime equals process lifetime, with no durability.
// All methods are safe for concurrent use.
type Network struct {
	mu    sync.RWMutex
	buoys map[int64]*Buoy

	seed  int64
	clock clockwork.Clock
}

// NewNetwork creates an empty registry. Every buoy added later draws noise
// from a source derived from seed and its zone id, so a fixed seed
// reproduces exact reading sequences per zone. Seed 0 picks a random one.
func NewNetwork(seed int64, clock clockwork.Clock) *Network {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Network{
		buoys: make(map[int64]*Buoy),
		seed:  seed,
		clock: clock,
	}
}

// Add creates and registers a buoy for the zone, replacing any existing
// entry. The displaced buoy is not stopped; callers holding a reference
// can keep reading from it.
func (n *Network) Add(zoneID int64, name string, lat, lon, depth float64) *Buoy {
	n.mu.Lock()
	defer n.mu.Unlock()

	b := NewBuoy(zoneID, name, lat, lon, depth, noise.NewSeeded(n.seed+zoneID), n.clock)
	n.buoys[zoneID] = b
	return b
}

// Remove stops and deregisters the zone's buoy.
func (n *Network) Remove(zoneID int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	b, ok := n.buoys[zoneID]
	if !ok {
		return ErrBuoyNotFound
	}
	b.Stop()
	delete(n.buoys, zoneID)
	return nil
}

// Get returns the zone's buoy.
func (n *Network) Get(zoneID int64) (*Buoy, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	b, ok := n.buoys[zoneID]
	if !ok {
		return nil, ErrBuoyNotFound
	}
	return b, nil
}

// Buoys returns the registered buoys in zone id order.
func (n *Network) Buoys() []*Buoy {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]*Buoy, 0, len(n.buoys))
	for _, b := range n.buoys {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZoneID < out[j].ZoneID })
	return out
}

// SnapshotAll generates one current reading per active buoy, in zone order.
// Stopped buoys are skipped, matching what the polling loop would collect.
func (n *Network) SnapshotAll() []Reading {
	var readings []Reading
	for _, b := range n.Buoys() {
		if !b.Active() {
			continue
		}
		readings = append(readings, b.CurrentReading())
	}
	return readings
}

// StopAll marks every registered buoy inactive.
func (n *Network) StopAll() {
	for _, b := range n.Buoys() {
		b.Stop()
	}
}

// Len reports the number of registered buoys.
func (n *Network) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.buoys)
}
