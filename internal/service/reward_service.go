package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

const dateLayout = "2006-01-02"

// defaultRewards are seeded for every user the first time their reward
// progress is read
var defaultRewards = map[string][]string{
	"daily-dynamo":   {"complete 3 chores in one day"},
	"weekly-warrior": {"complete 10 chores in one week"},
	"xp-collector":   {"earn 500 XP"},
}

// RewardService maintains per-user reward progress with daily and
// weekly counters that roll over when they are read on a new day or in
// a new week
type RewardService struct {
	store *storage.Store
}

// NewRewardService creates a new reward service
func NewRewardService(store *storage.Store) *RewardService {
	return &RewardService{store: store}
}

func today() string {
	return time.Now().Format(dateLayout)
}

// weekStart returns the Monday of the week containing t
func weekStart(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(dateLayout)
}

func newRewardProgress(userID string) models.RewardProgress {
	rewards := make(map[string]models.RewardState, len(defaultRewards))
	for id, requirements := range defaultRewards {
		rewards[id] = models.RewardState{
			IsCompleted:  false,
			Progress:     0,
			Requirements: requirements,
		}
	}
	return models.RewardProgress{
		UserID:         userID,
		Rewards:        rewards,
		DailyProgress:  models.DailyProgress{Date: today()},
		WeeklyProgress: models.WeeklyProgress{WeekStart: weekStart(time.Now())},
	}
}

// Get returns the user's reward progress, seeding defaults on first
// read. Stale daily and weekly counters are reset before returning and
// the reset is persisted.
func (s *RewardService) Get(ctx context.Context, userID string) (models.RewardProgress, error) {
	all, _, err := storage.Get[map[string]models.RewardProgress](ctx, s.store, storage.KeyRewardProgress)
	if err != nil {
		return models.RewardProgress{}, &StorageError{Op: "load", Key: storage.KeyRewardProgress, Err: err}
	}
	if all == nil {
		all = make(map[string]models.RewardProgress)
	}

	progress, exists := all[userID]
	changed := false
	if !exists {
		progress = newRewardProgress(userID)
		changed = true
	}

	if progress.DailyProgress.Date != today() {
		progress.DailyProgress = models.DailyProgress{Date: today()}
		changed = true
	}
	if current := weekStart(time.Now()); progress.WeeklyProgress.WeekStart != current {
		progress.WeeklyProgress = models.WeeklyProgress{WeekStart: current}
		changed = true
	}

	if changed {
		all[userID] = progress
		if err := storage.Set(ctx, s.store, storage.KeyRewardProgress, all); err != nil {
			return models.RewardProgress{}, &StorageError{Op: "save", Key: storage.KeyRewardProgress, Err: err}
		}
	}
	return progress, nil
}

// UpdateReward sets a reward's progress, clamped to 0-100. Reaching 100
// completes the reward and assigns a grant ID exactly once.
func (s *RewardService) UpdateReward(ctx context.Context, userID, rewardID string, percent int) (models.RewardState, error) {
	progress, err := s.Get(ctx, userID)
	if err != nil {
		return models.RewardState{}, err
	}

	state, ok := progress.Rewards[rewardID]
	if !ok {
		return models.RewardState{}, fmt.Errorf("unknown reward %q", rewardID)
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	state.Progress = percent
	if percent == 100 && !state.IsCompleted {
		state.IsCompleted = true
		state.GrantID = uuid.New().String()
	}
	progress.Rewards[rewardID] = state

	if err := s.save(ctx, progress); err != nil {
		return models.RewardState{}, err
	}
	return state, nil
}

// RecordChore bumps the daily and weekly counters for a completed
// chore and the XP it awarded
func (s *RewardService) RecordChore(ctx context.Context, userID string, xpEarned int) (models.RewardProgress, error) {
	progress, err := s.Get(ctx, userID)
	if err != nil {
		return models.RewardProgress{}, err
	}

	progress.DailyProgress.ChoresCompleted++
	progress.DailyProgress.XPEarned += xpEarned
	progress.WeeklyProgress.ChoresCompleted++
	progress.WeeklyProgress.XPEarned += xpEarned

	if err := s.save(ctx, progress); err != nil {
		return models.RewardProgress{}, err
	}
	return progress, nil
}

func (s *RewardService) save(ctx context.Context, progress models.RewardProgress) error {
	all, _, err := storage.Get[map[string]models.RewardProgress](ctx, s.store, storage.KeyRewardProgress)
	if err != nil {
		return &StorageError{Op: "load", Key: storage.KeyRewardProgress, Err: err}
	}
	if all == nil {
		all = make(map[string]models.RewardProgress)
	}
	all[progress.UserID] = progress
	if err := storage.Set(ctx, s.store, storage.KeyRewardProgress, all); err != nil {
		return &StorageError{Op: "save", Key: storage.KeyRewardProgress, Err: err}
	}
	return nil
}
