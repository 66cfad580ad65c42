package models

import "time"

// ThemeSettings is the persisted display theme choice
type ThemeSettings struct {
	Mode string `json:"mode"` // "light" or "dark"
}

// SoundSettings is the persisted audio preference
type SoundSettings struct {
	Enabled bool `json:"enabled"`
	Volume  int  `json:"volume"` // 0-100
}

// TutorialFlags marks which tutorial screens have been seen
type TutorialFlags map[string]bool

// PinAttempts tracks failed PIN entries inside the current window.
// LockedUntil is zero while verification is not locked out.
type PinAttempts struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"windowStart"`
	LockedUntil time.Time `json:"lockedUntil"`
}
