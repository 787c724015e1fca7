package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{-50, 0},
		{0, 0},
		{99, 0},
		{100, 1},
		{399, 1},
		{400, 2},
		{899, 2},
		{900, 3},
		{10000, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, CalculateLevel(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelBoundariesRoundTrip(t *testing.T) {
	for level := 0; level < 50; level++ {
		floor := XPFloor(level)
		ceiling := XPCeiling(level)

		assert.Equal(t, level, CalculateLevel(floor), "floor of level %d", level)
		assert.Equal(t, level, CalculateLevel(ceiling-1), "last xp of level %d", level)
		assert.Equal(t, level+1, CalculateLevel(ceiling), "ceiling of level %d", level)
	}
}

func TestProgressPercent(t *testing.T) {
	// Level 1 spans 100..400.
	assert.Equal(t, 0, ProgressPercent(100, 1))
	assert.Equal(t, 50, ProgressPercent(250, 1))
	assert.Equal(t, 99, ProgressPercent(399, 1))

	// Values outside the band clamp instead of under/overflowing.
	assert.Equal(t, 0, ProgressPercent(50, 1))
	assert.Equal(t, 100, ProgressPercent(500, 1))
}
