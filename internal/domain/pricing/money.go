package pricing

import "math"

// Round2 rounds x to 2 decimal places. Totals are computed on raw floats
// and only rounded at presentation and comparison boundaries.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
