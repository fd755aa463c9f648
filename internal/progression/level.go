// Package progression converts XP into levels and applies XP awards and
// streak updates to a user's ledger.
package progression

import "github.com/julianstephens/ascend/internal/constants"

// ThresholdFor returns the minimum total XP required to be at level.
// Levels below 1 are treated as level 1.
func ThresholdFor(level int) int {
	if level <= 1 {
		return 0
	}
	if level <= constants.MaxTableLevel {
		return constants.LevelThresholds[level-1]
	}
	last := constants.LevelThresholds[constants.MaxTableLevel-1]
	return last + (level-constants.MaxTableLevel)*constants.XPPerLevelAfter
}

// LevelFor returns the level reached with totalXP. Negative XP is level 1.
func LevelFor(totalXP int) int {
	last := constants.LevelThresholds[constants.MaxTableLevel-1]
	if totalXP >= last {
		return constants.MaxTableLevel + (totalXP-last)/constants.XPPerLevelAfter
	}
	level := 1
	for i, threshold := range constants.LevelThresholds {
		if totalXP >= threshold {
			level = i + 1
		}
	}
	return level
}

// ProgressPercent returns how far totalXP is through its current level, 0-100.
func ProgressPercent(totalXP int) float64 {
	level := LevelFor(totalXP)
	floor := ThresholdFor(level)
	span := ThresholdFor(level+1) - floor
	if span <= 0 {
		return 100
	}
	pct := float64(totalXP-floor) / float64(span) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// XPToNextLevel returns the XP still needed to reach the next level.
func XPToNextLevel(totalXP int) int {
	return ThresholdFor(LevelFor(totalXP)+1) - totalXP
}
