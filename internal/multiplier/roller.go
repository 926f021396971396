package multiplier

import "github.com/osse101/BrandishIdle_Go/internal/utils"

// Roller produces values in [0, 1) for the critical-hit roll
type Roller interface {
	Roll() float64
}

// RollerFunc adapts a function to the Roller interface
type RollerFunc func() float64

// Roll calls f()
func (f RollerFunc) Roll() float64 {
	return f()
}

// RandomRoller rolls with the shared game randomness
var RandomRoller Roller = RollerFunc(utils.RandomFloat)

// NeverRoller never produces a critical hit
var NeverRoller Roller = RollerFunc(func() float64 { return 1 })

// AlwaysRoller produces a critical hit whenever the chance is above zero
var AlwaysRoller Roller = RollerFunc(func() float64 { return 0 })
