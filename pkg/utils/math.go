package utils

import "math"

// Percent converts a ratio in [0, 1] to a whole percentage, rounding half away from zero.
// Values outside the range are clamped.
func Percent(ratio float64) int {
	if ratio <= 0 || math.IsNaN(ratio) {
		return 0
	}
	if ratio >= 1 {
		return 100
	}
	return int(math.Round(ratio * 100))
}
