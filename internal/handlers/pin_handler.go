package handlers

import (
	"errors"
	"net/http"

	"spellmaster/internal/service"
)

// PinHandler serves the parental PIN gate
type PinHandler struct {
	pinGate *service.PinGateService
}

// NewPinHandler creates a new PIN handler
func NewPinHandler(pinGate *service.PinGateService) *PinHandler {
	return &PinHandler{pinGate: pinGate}
}

// Status handles GET /api/pin/status. Content is protected unless the
// caller says otherwise with ?protected=false.
func (h *PinHandler) Status(w http.ResponseWriter, r *http.Request) {
	protected := r.URL.Query().Get("protected") != "false"
	state, err := h.pinGate.Check(r.Context(), protected)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to check PIN", "PIN check error", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(state)})
}

type setupPinRequest struct {
	Pin          string `json:"pin"`
	Confirmation string `json:"confirmation"`
}

// Setup handles POST /api/pin/setup
func (h *PinHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req setupPinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	err := h.pinGate.SetupPin(r.Context(), req.Pin, req.Confirmation)
	switch {
	case errors.Is(err, service.ErrPinFormat):
		respondWithError(w, http.StatusBadRequest, "PIN must be at least four digits", "", nil)
	case errors.Is(err, service.ErrPinMismatch):
		respondWithError(w, http.StatusBadRequest, "PIN and confirmation do not match", "", nil)
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, "Failed to set PIN", "PIN setup error", err)
	default:
		respondJSON(w, http.StatusOK, map[string]string{"state": string(h.pinGate.State())})
	}
}

type verifyPinRequest struct {
	Pin string `json:"pin"`
}

// Verify handles POST /api/pin/verify
func (h *PinHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	err := h.pinGate.VerifyPin(r.Context(), req.Pin)
	switch {
	case errors.Is(err, service.ErrPinLockedOut):
		respondWithError(w, http.StatusTooManyRequests, "Too many failed attempts, try again later", "", nil)
	case errors.Is(err, service.ErrPinIncorrect):
		respondWithError(w, http.StatusUnauthorized, "Incorrect PIN", "", nil)
	case errors.Is(err, service.ErrPinNotConfigured):
		respondWithError(w, http.StatusConflict, "No PIN configured", "", nil)
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, "Failed to verify PIN", "PIN verify error", err)
	default:
		respondJSON(w, http.StatusOK, map[string]string{"state": string(h.pinGate.State())})
	}
}

// Dismiss handles POST /api/pin/dismiss
func (h *PinHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.pinGate.Dismiss(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to dismiss", "PIN dismiss error", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(h.pinGate.State())})
}

// Lock handles POST /api/pin/lock
func (h *PinHandler) Lock(w http.ResponseWriter, r *http.Request) {
	if err := h.pinGate.Lock(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to lock", "PIN lock error", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(h.pinGate.State())})
}

// Reset handles POST /api/pin/reset. It removes the PIN outright, so
// it sits behind parent authentication.
func (h *PinHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.pinGate.Reset(r.Context()); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to reset PIN", "PIN reset error", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(h.pinGate.State())})
}
