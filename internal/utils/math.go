package utils

import (
	"math"
	"math/rand"
)

// RandomFloat returns a random float64 in [0.0, 1.0)
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// FloorReward computes rate × quantity × multiplier and truncates once, at the end.
// Non-positive inputs produce zero, and results beyond int64 saturate.
func FloorReward(rate int64, quantity int, multiplier float64) int64 {
	if rate <= 0 || quantity <= 0 || multiplier <= 0 || math.IsNaN(multiplier) {
		return 0
	}
	raw := float64(rate) * float64(quantity) * multiplier
	if raw >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(raw))
}

// Clamp bounds value to [lo, hi]
func Clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
