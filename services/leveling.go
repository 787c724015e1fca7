// services/leveling.go
package services

import "math"

// Leveling curve: level = floor(sqrt(xp/100)). Consecutive levels need a
// strictly growing amount of XP, so progression slows down as mentees
// climb — that pacing is deliberate.

const xpPerUnit = 100

// CalculateLevel returns the level implied by the given total XP.
// Negative or nonsensical input clamps to level 0 rather than erroring.
func CalculateLevel(xp int) int {
	if xp < 0 {
		return 0
	}
	return int(math.Sqrt(float64(xp) / xpPerUnit))
}

// XPFloor returns the minimum total XP for the given level.
func XPFloor(level int) int {
	if level < 0 {
		return 0
	}
	return xpPerUnit * level * level
}

// XPCeiling returns the total XP at which the next level begins.
func XPCeiling(level int) int {
	if level < 0 {
		return xpPerUnit
	}
	return xpPerUnit * (level + 1) * (level + 1)
}

// ProgressPercent returns how far (0-100) the given XP sits inside the
// band for the given level. When the band is empty or inverted (level has
// already advanced past what xp implies) it reports 100.
func ProgressPercent(xp, level int) int {
	floor := XPFloor(level)
	span := XPCeiling(level) - floor
	if span <= 0 {
		return 100
	}

	pct := (xp - floor) * 100 / span
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
