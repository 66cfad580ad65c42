package handlers

import (
	"net/http"

	"spellmaster/internal/service"
	"spellmaster/internal/ws"
)

// ProfileHandler serves the play profile and level table
type ProfileHandler struct {
	profileService *service.ProfileService
	hub            *ws.Hub
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService, hub *ws.Hub) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		hub:            hub,
	}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.GetProfile(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile", "Profile load error", err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// GetLevels handles GET /api/levels
func (h *ProfileHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.profileService.Levels())
}

type addXPRequest struct {
	Delta int `json:"delta"`
}

// AddXP handles POST /api/profile/xp
func (h *ProfileHandler) AddXP(w http.ResponseWriter, r *http.Request) {
	var req addXPRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	profile, err := h.profileService.AddXP(r.Context(), req.Delta)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update XP", "XP update error", err)
		return
	}

	h.hub.Broadcast("profile_updated", profile)
	respondJSON(w, http.StatusOK, profile)
}
