package constants

const (
	// Level curve: levels above the hand-tuned table cost a flat amount each.
	MaxTableLevel   = 11
	XPPerLevelAfter = 1000

	// LevelBonusXP is awarded every time the ledger crosses into a new level.
	LevelBonusXP = 50

	// MasteryThreshold is the number of completions after which a habit is completed.
	MasteryThreshold = 5

	// LevelUnlockRatio is the share of habits at the goal's current level that must
	// be completed before the next level unlocks.
	LevelUnlockRatio = 0.8

	// Recurrence output bounds.
	RecurrenceSimpleCap      = 52
	RecurrenceWeekdayCap     = 100
	RecurrenceMonthDayCap    = 52
	RecurrenceDefaultHorizon = 365 // days, used when no end date is given
)

// LevelThresholds holds the minimum XP for levels 1..MaxTableLevel.
var LevelThresholds = [...]int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500, 5500}

func init() {
	if len(LevelThresholds) != MaxTableLevel {
		panic("LevelThresholds must have exactly MaxTableLevel entries")
	}
	for i := 1; i < len(LevelThresholds); i++ {
		if LevelThresholds[i] <= LevelThresholds[i-1] {
			panic("LevelThresholds must be strictly increasing")
		}
	}
}
