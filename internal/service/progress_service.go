package service

import (
	"context"
	"fmt"
	"time"

	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

// StorageError reports a failed persistence step together with the
// operation and key it happened on
type StorageError struct {
	Op  string
	Key storage.Key
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ProgressService maintains the per-category trackers, the learned
// word list and per-word attempt history
type ProgressService struct {
	store *storage.Store
}

// NewProgressService creates a new progress service
func NewProgressService(store *storage.Store) *ProgressService {
	return &ProgressService{store: store}
}

// accuracyPercent is round(100 * correct / attempted). All trackers use
// this one formula.
func accuracyPercent(correct, attempted int) int {
	if attempted <= 0 {
		return 0
	}
	return (100*correct + attempted/2) / attempted
}

// updateTracker bumps the counters for one category under the given
// tracker key
func (s *ProgressService) updateTracker(ctx context.Context, key storage.Key, category string, correct bool) (models.CategoryStats, error) {
	stats, found, err := storage.Get[models.TrackerStats](ctx, s.store, key)
	if err != nil {
		return models.CategoryStats{}, &StorageError{Op: "load", Key: key, Err: err}
	}
	if !found {
		stats = models.TrackerStats{}
	}

	entry := stats[category]
	entry.Attempted++
	if correct {
		entry.Correct++
	}
	entry.Accuracy = accuracyPercent(entry.Correct, entry.Attempted)
	stats[category] = entry

	if err := storage.Set(ctx, s.store, key, stats); err != nil {
		return models.CategoryStats{}, &StorageError{Op: "save", Key: key, Err: err}
	}
	return entry, nil
}

// UpdateSpellingCategory records one spelling attempt in a category
func (s *ProgressService) UpdateSpellingCategory(ctx context.Context, category string, correct bool) (models.CategoryStats, error) {
	return s.updateTracker(ctx, storage.KeySpellingStats, category, correct)
}

// UpdateMathCategory records one math attempt in a category
func (s *ProgressService) UpdateMathCategory(ctx context.Context, category string, correct bool) (models.CategoryStats, error) {
	return s.updateTracker(ctx, storage.KeyMathStats, category, correct)
}

// UpdateShapeCategory records one shape attempt in a category
func (s *ProgressService) UpdateShapeCategory(ctx context.Context, category string, correct bool) (models.CategoryStats, error) {
	return s.updateTracker(ctx, storage.KeyShapeStats, category, correct)
}

// GetTracker returns the whole aggregate for one tracker key
func (s *ProgressService) GetTracker(ctx context.Context, key storage.Key) (models.TrackerStats, error) {
	stats, found, err := storage.Get[models.TrackerStats](ctx, s.store, key)
	if err != nil {
		return nil, &StorageError{Op: "load", Key: key, Err: err}
	}
	if !found {
		return models.TrackerStats{}, nil
	}
	return stats, nil
}

// CompleteChore records a finished chore and bumps its category in the
// chore tracker. The caller awards XP and reward progress with the
// returned record.
func (s *ProgressService) CompleteChore(ctx context.Context, choreID, category string, xpAwarded int) (models.CompletedChore, error) {
	chore := models.CompletedChore{
		ChoreID:     choreID,
		Category:    category,
		XPAwarded:   xpAwarded,
		CompletedAt: time.Now(),
	}

	completed, _, err := storage.Get[[]models.CompletedChore](ctx, s.store, storage.KeyCompletedChores)
	if err != nil {
		return models.CompletedChore{}, &StorageError{Op: "load", Key: storage.KeyCompletedChores, Err: err}
	}
	completed = append(completed, chore)
	if err := storage.Set(ctx, s.store, storage.KeyCompletedChores, completed); err != nil {
		return models.CompletedChore{}, &StorageError{Op: "save", Key: storage.KeyCompletedChores, Err: err}
	}

	if _, err := s.updateTracker(ctx, storage.KeyChoreStats, category, true); err != nil {
		return models.CompletedChore{}, err
	}
	return chore, nil
}

// MarkWordLearned appends a word to the learned list. Re-learning the
// same word is a no-op.
func (s *ProgressService) MarkWordLearned(ctx context.Context, word, category string) error {
	learned, _, err := storage.Get[[]models.LearnedWord](ctx, s.store, storage.KeyLearnedWords)
	if err != nil {
		return &StorageError{Op: "load", Key: storage.KeyLearnedWords, Err: err}
	}

	for _, entry := range learned {
		if entry.Word == word && entry.Category == category {
			return nil
		}
	}

	learned = append(learned, models.LearnedWord{
		Word:      word,
		Category:  category,
		LearnedAt: time.Now(),
	})
	if err := storage.Set(ctx, s.store, storage.KeyLearnedWords, learned); err != nil {
		return &StorageError{Op: "save", Key: storage.KeyLearnedWords, Err: err}
	}
	return nil
}

// LearnedWords returns the learned word list, empty when nothing is
// stored yet
func (s *ProgressService) LearnedWords(ctx context.Context) ([]models.LearnedWord, error) {
	learned, _, err := storage.Get[[]models.LearnedWord](ctx, s.store, storage.KeyLearnedWords)
	if err != nil {
		return nil, &StorageError{Op: "load", Key: storage.KeyLearnedWords, Err: err}
	}
	if learned == nil {
		learned = []models.LearnedWord{}
	}
	return learned, nil
}

// RecordWordAttempt bumps the attempt counters for one word
func (s *ProgressService) RecordWordAttempt(ctx context.Context, wordID string, correct bool) (models.WordProgress, error) {
	progress, _, err := storage.Get[[]models.WordProgress](ctx, s.store, storage.KeyWordProgress)
	if err != nil {
		return models.WordProgress{}, &StorageError{Op: "load", Key: storage.KeyWordProgress, Err: err}
	}

	now := time.Now()
	index := -1
	for i := range progress {
		if progress[i].WordID == wordID {
			index = i
			break
		}
	}
	if index < 0 {
		progress = append(progress, models.WordProgress{WordID: wordID})
		index = len(progress) - 1
	}

	progress[index].Attempts++
	if correct {
		progress[index].Correct++
	}
	progress[index].LastAttempt = &now

	if err := storage.Set(ctx, s.store, storage.KeyWordProgress, progress); err != nil {
		return models.WordProgress{}, &StorageError{Op: "save", Key: storage.KeyWordProgress, Err: err}
	}
	return progress[index], nil
}
