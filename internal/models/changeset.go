package models

// ChangeSet is every record write produced by one engine operation.
// Storage applies it in a single transaction.
type ChangeSet struct {
	Goals        []GoalInstance      `json:"goals,omitempty"`
	Progress     []HabitProgress     `json:"progress,omitempty"`
	Completions  []HabitCompletion   `json:"completions,omitempty"`
	Ledger       *XPLedger           `json:"ledger,omitempty"`
	Transactions []XPTransaction     `json:"transactions,omitempty"`
	Unlocks      []AchievementUnlock `json:"unlocks,omitempty"`
	Tasks        []Task              `json:"tasks,omitempty"`
}

// IsEmpty reports whether applying the change set would write nothing.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Goals) == 0 && len(c.Progress) == 0 && len(c.Completions) == 0 &&
		c.Ledger == nil && len(c.Transactions) == 0 && len(c.Unlocks) == 0 && len(c.Tasks) == 0
}
