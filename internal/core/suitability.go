package core

import "math"

// Suitability scores value against the viable range [minVal, maxVal] with a
// Gaussian kernel centred on the range midpoint. The spread is a third of the
// range width, so the range boundaries score exp(-1.125) and values one range
// width beyond them score about exp(-10).
func Suitability(value, minVal, maxVal float64) float64 {
	center := (minVal + maxVal) / 2
	spread := (maxVal - minVal) / 3.0

	if spread <= 0 {
		return 0
	}

	distance := value - center
	score := math.Exp(-(distance * distance) / (2 * spread * spread))

	return math.Max(0, math.Min(score, 1))
}
