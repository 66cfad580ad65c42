package models

import "time"

// UserProfile is the persisted play profile. Level is always derived
// from XP against the level table; stored values are corrected on load.
type UserProfile struct {
	XP         int        `json:"xp"`
	Level      string     `json:"level"`
	LastPlayed *time.Time `json:"lastPlayed"`
}

// PlayerLevel is one entry of the static level table. Ranges are
// half-open [MinXP, MaxXP); the top tier has no finite upper bound and
// is resolved explicitly.
type PlayerLevel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MinXP       int    `json:"minXp"`
	MaxXP       int    `json:"maxXp"`
}

// ChildProfile represents a child profile managed by the parent account
type ChildProfile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Level       string    `json:"level"`
	XP          int       `json:"xp"`
	AvatarColor string    `json:"avatarColor"`
	CreatedAt   time.Time `json:"createdAt"`
}
