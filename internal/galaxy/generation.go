// Galaxy generation using layered simplex noise.
// Each commodity gets its own noise field over the galactic plane, so
// exporter and importer regions form spatially coherent clusters instead of
// independent per-location rolls.

package galaxy

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds galaxy generation parameters.
type GenConfig struct {
	Locations      int     // Number of locations to place
	Seed           int64   // Random seed (0 = random)
	Radius         float64 // Galactic disc radius for placement
	ModifierSpread float64 // Max deviation of availability modifiers from 1.0
	FuelPriceLow   float64
	FuelPriceHigh  float64
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Locations:      12,
		Seed:           0,
		Radius:         40,
		ModifierSpread: 0.45,
		FuelPriceLow:   10,
		FuelPriceHigh:  35,
	}
}

var locationNames = []string{
	"Keld Station", "Port Veyra", "Threshold", "Ashfall Dock", "Cinder Reach",
	"Halvard Ring", "New Tyre", "Oberon Yards", "Saltmere", "Drift Seven",
	"Cassian Spur", "Low Anchor", "Veil Terminal", "Ironmoor", "Pale Harbor",
	"Sunken Gate", "Kraymer Point", "The Shallows", "Esker Landing", "Far Lantern",
}

// Generate creates the location catalog: positions drawn from the seeded rng,
// per-commodity availability modifiers and fuel prices sampled from layered
// noise fields at each position. Deterministic for a given seed.
func Generate(cfg GenConfig, commodities []Commodity) []Location {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	// One noise field per commodity, plus one for fuel.
	fuelNoise := opensimplex.NewNormalized(seed)
	commodityNoise := make(map[string]opensimplex.Noise, len(commodities))
	for i, c := range commodities {
		commodityNoise[c.ID] = opensimplex.NewNormalized(seed + int64(i) + 1)
	}

	n := cfg.Locations
	if n > len(locationNames) {
		n = len(locationNames)
	}

	locations := make([]Location, 0, n)
	for i := 0; i < n; i++ {
		// Uniform placement over the disc.
		angle := rng.Float64() * 2 * math.Pi
		dist := math.Sqrt(rng.Float64()) * cfg.Radius
		coord := Coord{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist}

		modifiers := make(map[string]float64)
		for _, c := range commodities {
			v := octaveNoise(commodityNoise[c.ID], coord.X, coord.Y, 3, 0.05, 0.5)
			mod := 1.0 + (v-0.5)*2*cfg.ModifierSpread
			// Near-neutral locations get no entry at all; readers fall back
			// to the 1.0 default through ModifierFor.
			if math.Abs(mod-1.0) < 0.05 {
				continue
			}
			modifiers[c.ID] = math.Round(mod*100) / 100
		}

		fuel := octaveNoise(fuelNoise, coord.X, coord.Y, 2, 0.04, 0.5)
		fuelPrice := math.Round(cfg.FuelPriceLow + fuel*(cfg.FuelPriceHigh-cfg.FuelPriceLow))

		locations = append(locations, Location{
			ID:                   fmt.Sprintf("loc-%02d", i+1),
			Name:                 locationNames[i],
			Coord:                coord,
			AvailabilityModifier: modifiers,
			FuelPrice:            fuelPrice,
		})
	}

	return locations
}

// octaveNoise generates fractal noise by layering multiple frequencies.
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
