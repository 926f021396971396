package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorReward(t *testing.T) {
	tests := []struct {
		name       string
		rate       int64
		quantity   int
		multiplier float64
		expected   int64
	}{
		{"coin boost x2", 100, 1, 2, 200},
		{"gem building x1.2", 20, 1, 1.2, 24},
		{"floors only at the end", 10, 3, 1.15, 34},
		{"fraction below one unit", 1, 1, 0.9, 0},
		{"zero quantity", 100, 0, 2, 0},
		{"negative multiplier", 100, 1, -1, 0},
		{"NaN multiplier", 100, 1, math.NaN(), 0},
		{"saturates", math.MaxInt64, 10, 10, math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FloorReward(tt.rate, tt.quantity, tt.multiplier))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(42, 0, 10))
	assert.Equal(t, 7, Clamp(7, 0, 10))
}

func TestRandomFloatRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := RandomFloat()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
