package handlers

import (
	"net/http"

	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

// SettingsHandler serves theme, sound and tutorial preferences
type SettingsHandler struct {
	store *storage.Store
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store *storage.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetTheme handles GET /api/settings/theme
func (h *SettingsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, found, err := storage.Get[models.ThemeSettings](r.Context(), h.store, storage.KeyThemeSettings)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load theme", "Theme load error", err)
		return
	}
	if !found {
		theme = models.ThemeSettings{Mode: "light"}
	}
	respondJSON(w, http.StatusOK, theme)
}

// SetTheme handles PUT /api/settings/theme
func (h *SettingsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var theme models.ThemeSettings
	if err := decodeJSON(r, &theme); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if theme.Mode != "light" && theme.Mode != "dark" {
		respondWithError(w, http.StatusBadRequest, "Mode must be light or dark", "", nil)
		return
	}

	if err := storage.Set(r.Context(), h.store, storage.KeyThemeSettings, theme); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save theme", "Theme save error", err)
		return
	}
	respondJSON(w, http.StatusOK, theme)
}

// GetSound handles GET /api/settings/sound
func (h *SettingsHandler) GetSound(w http.ResponseWriter, r *http.Request) {
	sound, found, err := storage.Get[models.SoundSettings](r.Context(), h.store, storage.KeySoundSettings)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load sound settings", "Sound load error", err)
		return
	}
	if !found {
		sound = models.SoundSettings{Enabled: true, Volume: 80}
	}
	respondJSON(w, http.StatusOK, sound)
}

// SetSound handles PUT /api/settings/sound
func (h *SettingsHandler) SetSound(w http.ResponseWriter, r *http.Request) {
	var sound models.SoundSettings
	if err := decodeJSON(r, &sound); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if sound.Volume < 0 || sound.Volume > 100 {
		respondWithError(w, http.StatusBadRequest, "Volume must be between 0 and 100", "", nil)
		return
	}

	if err := storage.Set(r.Context(), h.store, storage.KeySoundSettings, sound); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save sound settings", "Sound save error", err)
		return
	}
	respondJSON(w, http.StatusOK, sound)
}

// GetTutorialFlags handles GET /api/settings/tutorial
func (h *SettingsHandler) GetTutorialFlags(w http.ResponseWriter, r *http.Request) {
	flags, found, err := storage.Get[models.TutorialFlags](r.Context(), h.store, storage.KeyTutorialFlags)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load tutorial flags", "Tutorial load error", err)
		return
	}
	if !found {
		flags = models.TutorialFlags{}
	}
	respondJSON(w, http.StatusOK, flags)
}

type tutorialSeenRequest struct {
	Screen string `json:"screen"`
}

// MarkTutorialSeen handles POST /api/settings/tutorial
func (h *SettingsHandler) MarkTutorialSeen(w http.ResponseWriter, r *http.Request) {
	var req tutorialSeenRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.Screen == "" {
		respondWithError(w, http.StatusBadRequest, "Screen is required", "", nil)
		return
	}

	flags, _, err := storage.Get[models.TutorialFlags](r.Context(), h.store, storage.KeyTutorialFlags)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load tutorial flags", "Tutorial load error", err)
		return
	}
	if flags == nil {
		flags = models.TutorialFlags{}
	}
	flags[req.Screen] = true

	if err := storage.Set(r.Context(), h.store, storage.KeyTutorialFlags, flags); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save tutorial flags", "Tutorial save error", err)
		return
	}
	respondJSON(w, http.StatusOK, flags)
}
