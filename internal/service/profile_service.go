package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

// playerLevels is the static level table. Ranges are half-open; the
// last tier has no upper bound and MaxXP is -1 there.
var playerLevels = []models.PlayerLevel{
	{ID: "1", Title: "Word Sprout", Description: "Just getting started", MinXP: 0, MaxXP: 100},
	{ID: "2", Title: "Letter Explorer", Description: "Finding the way around letters", MinXP: 100, MaxXP: 300},
	{ID: "3", Title: "Spelling Scout", Description: "Spotting patterns in words", MinXP: 300, MaxXP: 600},
	{ID: "4", Title: "Word Wizard", Description: "Casting spells with spelling", MinXP: 600, MaxXP: 1000},
	{ID: "5", Title: "Spell Master", Description: "Top of the word mountain", MinXP: 1000, MaxXP: -1},
}

// ProfileService manages the play profile: XP accrual and the level
// derived from it
type ProfileService struct {
	store *storage.Store
}

// NewProfileService creates a new profile service
func NewProfileService(store *storage.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Levels returns the full level table
func (s *ProfileService) Levels() []models.PlayerLevel {
	levels := make([]models.PlayerLevel, len(playerLevels))
	copy(levels, playerLevels)
	return levels
}

// ResolveLevel maps an XP total to its level. XP below zero resolves to
// the first level; XP at or past the last tier's minimum resolves to
// that tier regardless of its missing upper bound.
func ResolveLevel(xp int) models.PlayerLevel {
	last := playerLevels[len(playerLevels)-1]
	if xp >= last.MinXP {
		return last
	}
	for _, level := range playerLevels[:len(playerLevels)-1] {
		if xp >= level.MinXP && xp < level.MaxXP {
			return level
		}
	}
	return playerLevels[0]
}

// GetProfile loads the profile, creating a fresh one when none is
// stored. A stored level that disagrees with the XP is corrected and
// the fix persisted. A failing read falls back to an in-memory default
// so the caller can keep playing; the fallback is not persisted.
func (s *ProfileService) GetProfile(ctx context.Context) (models.UserProfile, error) {
	profile, found, err := storage.Get[models.UserProfile](ctx, s.store, storage.KeyUserProfile)
	if err != nil {
		log.Printf("WARN: profile read failed, using in-memory default: %v", err)
		return models.UserProfile{XP: 0, Level: playerLevels[0].ID}, nil
	}
	if !found {
		profile = models.UserProfile{XP: 0, Level: playerLevels[0].ID}
		if err := storage.Set(ctx, s.store, storage.KeyUserProfile, profile); err != nil {
			return models.UserProfile{}, err
		}
		return profile, nil
	}

	if correct := ResolveLevel(profile.XP).ID; profile.Level != correct {
		profile.Level = correct
		if err := storage.Set(ctx, s.store, storage.KeyUserProfile, profile); err != nil {
			return models.UserProfile{}, fmt.Errorf("failed to persist level correction: %w", err)
		}
	}
	return profile, nil
}

// AddXP adjusts the profile's XP by delta, which may be negative. The
// total never drops below zero. LastPlayed is stamped and the level
// recomputed before persisting.
func (s *ProfileService) AddXP(ctx context.Context, delta int) (models.UserProfile, error) {
	profile, err := s.GetProfile(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}

	profile.XP += delta
	if profile.XP < 0 {
		profile.XP = 0
	}
	profile.Level = ResolveLevel(profile.XP).ID
	now := time.Now()
	profile.LastPlayed = &now

	if err := storage.Set(ctx, s.store, storage.KeyUserProfile, profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

// AddChildXP adjusts a child profile's XP by delta with the same
// floor-at-zero rule, and recomputes the child's level
func (s *ProfileService) AddChildXP(ctx context.Context, childID string, delta int) (models.ChildProfile, error) {
	children, _, err := storage.Get[[]models.ChildProfile](ctx, s.store, storage.KeyChildProfiles)
	if err != nil {
		return models.ChildProfile{}, err
	}

	for i := range children {
		if children[i].ID != childID {
			continue
		}
		children[i].XP += delta
		if children[i].XP < 0 {
			children[i].XP = 0
		}
		children[i].Level = ResolveLevel(children[i].XP).ID

		if err := storage.Set(ctx, s.store, storage.KeyChildProfiles, children); err != nil {
			return models.ChildProfile{}, err
		}
		return children[i], nil
	}
	return models.ChildProfile{}, fmt.Errorf("child %q not found", childID)
}
