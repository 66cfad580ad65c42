package handlers

import (
	"net/http"

	"spellmaster/internal/models"
	"spellmaster/internal/service"
	"spellmaster/internal/storage"
	"spellmaster/internal/ws"
)

// ProgressHandler serves the category trackers, learned words and
// chore completion
type ProgressHandler struct {
	progressService *service.ProgressService
	profileService  *service.ProfileService
	rewardService   *service.RewardService
	childService    *service.ChildService
	hub             *ws.Hub
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService, profileService *service.ProfileService, rewardService *service.RewardService, childService *service.ChildService, hub *ws.Hub) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		profileService:  profileService,
		rewardService:   rewardService,
		childService:    childService,
		hub:             hub,
	}
}

// trackerKey maps the path segment to a tracker storage key
func trackerKey(name string) (storage.Key, bool) {
	switch name {
	case "spelling":
		return storage.KeySpellingStats, true
	case "math":
		return storage.KeyMathStats, true
	case "shapes":
		return storage.KeyShapeStats, true
	case "chores":
		return storage.KeyChoreStats, true
	default:
		return "", false
	}
}

// GetTracker handles GET /api/progress/{tracker}
func (h *ProgressHandler) GetTracker(w http.ResponseWriter, r *http.Request) {
	key, ok := trackerKey(r.PathValue("tracker"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown tracker", "", nil)
		return
	}

	stats, err := h.progressService.GetTracker(r.Context(), key)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load tracker", "Tracker load error", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type attemptRequest struct {
	Category string `json:"category"`
	Correct  bool   `json:"correct"`
}

// RecordAttempt handles POST /api/progress/{tracker}/attempt
func (h *ProgressHandler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	var req attemptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.Category == "" {
		respondWithError(w, http.StatusBadRequest, "Category is required", "", nil)
		return
	}

	var stats models.CategoryStats
	var err error
	switch r.PathValue("tracker") {
	case "spelling":
		stats, err = h.progressService.UpdateSpellingCategory(r.Context(), req.Category, req.Correct)
	case "math":
		stats, err = h.progressService.UpdateMathCategory(r.Context(), req.Category, req.Correct)
	case "shapes":
		stats, err = h.progressService.UpdateShapeCategory(r.Context(), req.Category, req.Correct)
	default:
		respondWithError(w, http.StatusNotFound, "Unknown tracker", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to record attempt", "Attempt record error", err)
		return
	}

	h.hub.Broadcast("tracker_updated", map[string]any{
		"tracker":  r.PathValue("tracker"),
		"category": req.Category,
		"stats":    stats,
	})
	respondJSON(w, http.StatusOK, stats)
}

type completeChoreRequest struct {
	ChoreID  string `json:"choreId"`
	Category string `json:"category"`
	XP       int    `json:"xp"`
}

// CompleteChore handles POST /api/chores/complete. One chore completion
// touches the chore tracker, the profile XP, the active child's XP and
// the reward counters.
func (h *ProgressHandler) CompleteChore(w http.ResponseWriter, r *http.Request) {
	var req completeChoreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.ChoreID == "" || req.Category == "" {
		respondWithError(w, http.StatusBadRequest, "ChoreId and category are required", "", nil)
		return
	}
	if req.XP < 0 {
		respondWithError(w, http.StatusBadRequest, "XP cannot be negative", "", nil)
		return
	}

	ctx := r.Context()
	chore, err := h.progressService.CompleteChore(ctx, req.ChoreID, req.Category, req.XP)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to complete chore", "Chore completion error", err)
		return
	}

	profile, err := h.profileService.AddXP(ctx, req.XP)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to award XP", "Chore XP error", err)
		return
	}

	rewardUserID := "default"
	if child, err := h.childService.ActiveChild(ctx); err == nil {
		rewardUserID = child.ID
		if _, err := h.profileService.AddChildXP(ctx, child.ID, req.XP); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to award XP", "Child XP error", err)
			return
		}
	}

	rewards, err := h.rewardService.RecordChore(ctx, rewardUserID, req.XP)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update rewards", "Reward update error", err)
		return
	}

	h.hub.Broadcast("chore_completed", map[string]any{
		"chore":   chore,
		"profile": profile,
		"rewards": rewards,
	})
	respondJSON(w, http.StatusOK, map[string]any{
		"chore":   chore,
		"profile": profile,
		"rewards": rewards,
	})
}

// GetLearnedWords handles GET /api/words/learned
func (h *ProgressHandler) GetLearnedWords(w http.ResponseWriter, r *http.Request) {
	learned, err := h.progressService.LearnedWords(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load learned words", "Learned words error", err)
		return
	}
	respondJSON(w, http.StatusOK, learned)
}

type learnedWordRequest struct {
	Word     string `json:"word"`
	Category string `json:"category"`
}

// MarkWordLearned handles POST /api/words/learned
func (h *ProgressHandler) MarkWordLearned(w http.ResponseWriter, r *http.Request) {
	var req learnedWordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.Word == "" || req.Category == "" {
		respondWithError(w, http.StatusBadRequest, "Word and category are required", "", nil)
		return
	}

	if err := h.progressService.MarkWordLearned(r.Context(), req.Word, req.Category); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to mark word learned", "Learned word error", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "learned"})
}

type wordAttemptRequest struct {
	Correct bool `json:"correct"`
}

// RecordWordAttempt handles POST /api/words/{id}/attempt
func (h *ProgressHandler) RecordWordAttempt(w http.ResponseWriter, r *http.Request) {
	wordID := r.PathValue("id")
	if wordID == "" {
		respondWithError(w, http.StatusBadRequest, "Word id is required", "", nil)
		return
	}

	var req wordAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	progress, err := h.progressService.RecordWordAttempt(r.Context(), wordID, req.Correct)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to record attempt", "Word attempt error", err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}
