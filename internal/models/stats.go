package models

import "time"

// CategoryStats holds per-category counters for a tracker.
// Accuracy is always round(100 * correct / attempted).
type CategoryStats struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
	Accuracy  int `json:"accuracy"`
}

// TrackerStats is a whole persisted aggregate for one tracker
// (spelling, math, shape or chore), keyed by category name.
type TrackerStats map[string]CategoryStats

// LearnedWord records a word the child has mastered
type LearnedWord struct {
	Word      string    `json:"word"`
	Category  string    `json:"category"`
	LearnedAt time.Time `json:"learnedAt"`
}

// WordProgress tracks attempts on a single word
type WordProgress struct {
	WordID      string     `json:"wordId"`
	Attempts    int        `json:"attempts"`
	Correct     int        `json:"correct"`
	LastAttempt *time.Time `json:"lastAttempt"`
}
