package models

import "time"

// RewardState tracks one reward for one user
type RewardState struct {
	IsCompleted  bool     `json:"isCompleted"`
	Progress     int      `json:"progress"` // 0-100
	Requirements []string `json:"requirements"`
	GrantID      string   `json:"grantId,omitempty"`
}

// DailyProgress accumulates within a single day and resets when the
// stored date is no longer today
type DailyProgress struct {
	Date            string `json:"date"` // YYYY-MM-DD
	ChoresCompleted int    `json:"choresCompleted"`
	XPEarned        int    `json:"xpEarned"`
}

// WeeklyProgress accumulates within an ISO week and resets when the
// stored week start is no longer the current week's Monday
type WeeklyProgress struct {
	WeekStart       string `json:"weekStart"` // YYYY-MM-DD, Monday
	ChoresCompleted int    `json:"choresCompleted"`
	XPEarned        int    `json:"xpEarned"`
}

// RewardProgress is the per-user reward aggregate
type RewardProgress struct {
	UserID         string                 `json:"userId"`
	Rewards        map[string]RewardState `json:"rewards"`
	DailyProgress  DailyProgress          `json:"dailyProgress"`
	WeeklyProgress WeeklyProgress         `json:"weeklyProgress"`
}

// CompletedChore records one finished chore and the XP it awarded
type CompletedChore struct {
	ChoreID     string    `json:"choreId"`
	Category    string    `json:"category"`
	XPAwarded   int       `json:"xpAwarded"`
	CompletedAt time.Time `json:"completedAt"`
}
