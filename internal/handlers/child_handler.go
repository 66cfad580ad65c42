package handlers

import (
	"errors"
	"net/http"

	"spellmaster/internal/service"
)

// ChildHandler serves child profiles and the active-child selection.
// Switch notifications reach devices through the child service's
// subscription, not from here.
type ChildHandler struct {
	childService *service.ChildService
}

// NewChildHandler creates a new child handler
func NewChildHandler(childService *service.ChildService) *ChildHandler {
	return &ChildHandler{childService: childService}
}

// ListChildren handles GET /api/children
func (h *ChildHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.childService.ListChildren(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load children", "Child list error", err)
		return
	}
	respondJSON(w, http.StatusOK, children)
}

type createChildRequest struct {
	Name string `json:"name"`
}

// CreateChild handles POST /api/children
func (h *ChildHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req createChildRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	child, err := h.childService.CreateChild(r.Context(), req.Name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create child", "Child create error", err)
		return
	}
	respondJSON(w, http.StatusCreated, child)
}

// GetActiveChild handles GET /api/children/active
func (h *ChildHandler) GetActiveChild(w http.ResponseWriter, r *http.Request) {
	child, err := h.childService.ActiveChild(r.Context())
	if errors.Is(err, service.ErrNoActiveChild) {
		respondWithError(w, http.StatusNotFound, "No active child", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load active child", "Active child error", err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

type setActiveChildRequest struct {
	ID string `json:"id"`
}

// SetActiveChild handles PUT /api/children/active. An empty or absent
// ID clears the selection.
func (h *ChildHandler) SetActiveChild(w http.ResponseWriter, r *http.Request) {
	var req setActiveChildRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.childService.SetActiveChild(r.Context(), req.ID); err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to switch child", "Child switch error", err)
		return
	}

	child, err := h.childService.ActiveChild(r.Context())
	if errors.Is(err, service.ErrNoActiveChild) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load active child", "Active child error", err)
		return
	}

	respondJSON(w, http.StatusOK, child)
}
