// Package zones plans monitoring zone layouts using layered simplex noise.
// A synthetic bathymetry and productivity field is sampled over an ocean
// region, candidate mooring sites are scored, and the best-separated sites
// become buoy deployment plans.
package zones

import (
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds survey planning parameters.
type GenConfig struct {
	Count    int     // Number of mooring sites to plan
	Seed     int64   // Random seed (0 = random)
	LatMin   float64 // Southern edge of the survey region
	LatMax   float64 // Northern edge
	LonMin   float64 // Western edge
	LonMax   float64 // Eastern edge
	MaxDepth float64 // Deepest plannable mooring, meters
}

// DefaultGenConfig surveys the ice-free global ocean.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Count:    6,
		Seed:     0,
		LatMin:   -60,
		LatMax:   60,
		LonMin:   -180,
		LonMax:   180,
		MaxDepth: 200,
	}
}

// Site is one planned mooring location.
type Site struct {
	Name      string
	Latitude  float64
	Longitude float64
	Depth     float64 // meters
	Score     float64 // desirability at planning time
}

// Cells with relief above this are treated as landmass and skipped.
const seaLevel = 0.75

// Grid resolution and minimum spacing between sites, in degrees.
const (
	cellSize      = 2.5
	minSeparation = 15.0
)

// Plan generates a deterministic site layout for the configured region.
// Sites come back sorted by desirability, best first. Fewer than Count
// sites can come back when the region is too small to separate them.
func Plan(cfg GenConfig) []Site {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Two noise layers: seafloor relief and biological productivity.
	reliefNoise := opensimplex.NewNormalized(seed)
	prodNoise := opensimplex.NewNormalized(seed + 1)

	rng := rand.New(rand.NewSource(seed + 200))

	type candidate struct {
		lat, lon float64
		depth    float64
		score    float64
	}
	var candidates []candidate

	for lat := cfg.LatMin; lat <= cfg.LatMax; lat += cellSize {
		for lon := cfg.LonMin; lon <= cfg.LonMax; lon += cellSize {
			relief := octaveNoise(reliefNoise, lon, lat, 4, 0.08, 0.5)
			if relief > seaLevel {
				continue
			}

			depth := (seaLevel - relief) / seaLevel * cfg.MaxDepth
			productivity := octaveNoise(prodNoise, lon, lat, 3, 0.06, 0.5)

			score := productivity * 3.0
			if depth >= 20 && depth <= 120 {
				score += 1.5 // shelf break, where moorings earn their keep
			}
			if math.Abs(lat) < 40 {
				score += 0.5 // serviceable by ship year-round
			}

			candidates = append(candidates, candidate{
				lat:   lat,
				lon:   lon,
				depth: math.Round(depth*10) / 10,
				score: score,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var sites []Site
	for _, c := range candidates {
		if len(sites) >= cfg.Count {
			break
		}
		if tooClose(c.lat, c.lon, sites) {
			continue
		}
		sites = append(sites, Site{
			Latitude:  c.lat,
			Longitude: c.lon,
			Depth:     c.depth,
			Score:     c.score,
		})
	}

	names := generateNames(rng, len(sites))
	for i := range sites {
		sites[i].Name = names[i]
	}

	return sites
}

func tooClose(lat, lon float64, existing []Site) bool {
	for _, s := range existing {
		dLat := lat - s.Latitude
		dLon := lon - s.Longitude
		if math.Sqrt(dLat*dLat+dLon*dLon) < minSeparation {
			return true
		}
	}
	return false
}

// octaveNoise layers multiple noise frequencies for natural-looking fields.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"North", "South", "East", "West", "Outer", "Inner", "Far",
		"Deep", "Gray", "Blue", "Storm", "Tide", "Gull", "Seal",
		"Whale", "Kelp", "Coral", "Drift", "Fog", "Spray",
	}
	suffixes := []string{
		" Bank", " Shoal", " Reach", " Passage", " Basin", " Ridge",
		" Gyre", " Shelf", " Sound", " Rise", " Narrows", " Deep",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}
