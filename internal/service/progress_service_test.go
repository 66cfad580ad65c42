package service

import (
	"context"
	"errors"
	"testing"

	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

func TestAccuracyPercent(t *testing.T) {
	tests := []struct {
		correct, attempted, want int
	}{
		{0, 0, 0},
		{1, 1, 100},
		{2, 3, 67},
		{3, 4, 75},
		{1, 3, 33},
		{0, 5, 0},
	}

	for _, tt := range tests {
		if got := accuracyPercent(tt.correct, tt.attempted); got != tt.want {
			t.Errorf("accuracyPercent(%d, %d) = %d, want %d", tt.correct, tt.attempted, got, tt.want)
		}
	}
}

func TestUpdateTrackerFromExistingState(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProgressService(store)
	ctx := context.Background()

	seed := models.TrackerStats{
		"addition": {Attempted: 3, Correct: 2, Accuracy: 67},
	}
	if err := storage.Set(ctx, store, storage.KeyMathStats, seed); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := svc.UpdateMathCategory(ctx, "addition", true)
	if err != nil {
		t.Fatalf("UpdateMathCategory() error = %v", err)
	}
	want := models.CategoryStats{Attempted: 4, Correct: 3, Accuracy: 75}
	if got != want {
		t.Errorf("UpdateMathCategory() = %+v, want %+v", got, want)
	}
}

func TestUpdateTrackerNewCategory(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProgressService(store)
	ctx := context.Background()

	got, err := svc.UpdateSpellingCategory(ctx, "animals", false)
	if err != nil {
		t.Fatalf("UpdateSpellingCategory() error = %v", err)
	}
	want := models.CategoryStats{Attempted: 1, Correct: 0, Accuracy: 0}
	if got != want {
		t.Errorf("UpdateSpellingCategory() = %+v, want %+v", got, want)
	}

	// other trackers stay independent
	shapes, err := svc.GetTracker(ctx, storage.KeyShapeStats)
	if err != nil {
		t.Fatalf("GetTracker() error = %v", err)
	}
	if len(shapes) != 0 {
		t.Errorf("shape tracker = %v, want empty", shapes)
	}
}

func TestCompleteChore(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProgressService(store)
	ctx := context.Background()

	chore, err := svc.CompleteChore(ctx, "make-bed", "bedroom", 20)
	if err != nil {
		t.Fatalf("CompleteChore() error = %v", err)
	}
	if chore.XPAwarded != 20 || chore.CompletedAt.IsZero() {
		t.Errorf("CompleteChore() = %+v", chore)
	}

	completed, _, err := storage.Get[[]models.CompletedChore](ctx, store, storage.KeyCompletedChores)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(completed) != 1 || completed[0].ChoreID != "make-bed" {
		t.Errorf("completed chores = %+v", completed)
	}

	chores, err := svc.GetTracker(ctx, storage.KeyChoreStats)
	if err != nil {
		t.Fatalf("GetTracker() error = %v", err)
	}
	if chores["bedroom"].Attempted != 1 || chores["bedroom"].Accuracy != 100 {
		t.Errorf("chore tracker = %+v", chores["bedroom"])
	}
}

func TestMarkWordLearnedIdempotent(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProgressService(store)
	ctx := context.Background()

	if err := svc.MarkWordLearned(ctx, "cat", "animals"); err != nil {
		t.Fatalf("MarkWordLearned() error = %v", err)
	}
	if err := svc.MarkWordLearned(ctx, "cat", "animals"); err != nil {
		t.Fatalf("MarkWordLearned() error = %v", err)
	}

	learned, err := svc.LearnedWords(ctx)
	if err != nil {
		t.Fatalf("LearnedWords() error = %v", err)
	}
	if len(learned) != 1 {
		t.Errorf("learned words = %+v, want one entry", learned)
	}
}

func TestRecordWordAttempt(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProgressService(store)
	ctx := context.Background()

	if _, err := svc.RecordWordAttempt(ctx, "w1", false); err != nil {
		t.Fatalf("RecordWordAttempt() error = %v", err)
	}
	got, err := svc.RecordWordAttempt(ctx, "w1", true)
	if err != nil {
		t.Fatalf("RecordWordAttempt() error = %v", err)
	}
	if got.Attempts != 2 || got.Correct != 1 {
		t.Errorf("RecordWordAttempt() = %+v, want Attempts=2 Correct=1", got)
	}
	if got.LastAttempt == nil {
		t.Error("RecordWordAttempt() should stamp LastAttempt")
	}
}

func TestStorageErrorWraps(t *testing.T) {
	inner := errors.New("disk full")
	err := &StorageError{Op: "save", Key: storage.KeyLearnedWords, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("StorageError should unwrap to its cause")
	}
	if err.Error() == "" {
		t.Error("StorageError.Error() should describe the failure")
	}
}
