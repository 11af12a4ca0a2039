package market

import "math"

// uniform returns a draw in [low, high).
func (e *Engine) uniform(low, high float64) float64 {
	return low + e.rng.Float64()*(high-low)
}

// intBetween returns an integer draw in [low, high], inclusive.
func (e *Engine) intBetween(low, high int) int {
	return low + e.rng.Intn(high-low+1)
}

// skewedRandom draws a whole-number value in [min, max] from the baseline
// stock distribution: the average of three uniform draws pulled through a
// square root, mapped linearly onto the range and floored.
func (e *Engine) skewedRandom(min, max float64) float64 {
	avg := (e.rng.Float64() + e.rng.Float64() + e.rng.Float64()) / 3
	v := math.Sqrt(avg)
	return math.Floor(min + v*(max-min))
}
