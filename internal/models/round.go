package models

import "math"

// roundHalfAwayFromZero matches the rounding behaviour osu!'s own tooling
// uses for bpm and spacing values (round-half-away-from-zero, not
// round-half-to-even). math.Round already rounds half away from zero; this
// wrapper just gives the behaviour a name at call sites.
func roundHalfAwayFromZero(v float64) float64 {
	return math.Round(v)
}

// RoundDecimal rounds v to the given number of decimal places, half away
// from zero.
func RoundDecimal(decimals int, v float64) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
