package handlers

import (
	"net/http"

	"spellmaster/internal/service"
	"spellmaster/internal/ws"
)

// RewardsHandler serves per-user reward progress
type RewardsHandler struct {
	rewardService *service.RewardService
	childService  *service.ChildService
	hub           *ws.Hub
}

// NewRewardsHandler creates a new rewards handler
func NewRewardsHandler(rewardService *service.RewardService, childService *service.ChildService, hub *ws.Hub) *RewardsHandler {
	return &RewardsHandler{
		rewardService: rewardService,
		childService:  childService,
		hub:           hub,
	}
}

// rewardUserID resolves the reward bucket: the active child when one
// is selected, a shared bucket otherwise
func (h *RewardsHandler) rewardUserID(r *http.Request) string {
	if child, err := h.childService.ActiveChild(r.Context()); err == nil {
		return child.ID
	}
	return "default"
}

// GetRewards handles GET /api/rewards
func (h *RewardsHandler) GetRewards(w http.ResponseWriter, r *http.Request) {
	progress, err := h.rewardService.Get(r.Context(), h.rewardUserID(r))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load rewards", "Reward load error", err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

type rewardProgressRequest struct {
	Progress int `json:"progress"`
}

// UpdateReward handles PUT /api/rewards/{id}
func (h *RewardsHandler) UpdateReward(w http.ResponseWriter, r *http.Request) {
	rewardID := r.PathValue("id")
	if rewardID == "" {
		respondWithError(w, http.StatusBadRequest, "Reward id is required", "", nil)
		return
	}

	var req rewardProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	state, err := h.rewardService.UpdateReward(r.Context(), h.rewardUserID(r), rewardID, req.Progress)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to update reward", "Reward update error", err)
		return
	}

	if state.IsCompleted {
		h.hub.Broadcast("reward_completed", map[string]any{
			"rewardId": rewardID,
			"state":    state,
		})
	}
	respondJSON(w, http.StatusOK, state)
}
