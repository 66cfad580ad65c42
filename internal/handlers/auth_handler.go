package handlers

import (
	"errors"
	"net/http"

	"spellmaster/internal/security"
	"spellmaster/internal/service"
)

// AuthHandler serves parent account endpoints
type AuthHandler struct {
	authService *service.AuthService
	oauthGoogle *GoogleOAuth
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, oauthGoogle *GoogleOAuth) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		oauthGoogle: oauthGoogle,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "Registration failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	user, session, err := h.authService.Login(req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Login failed", "Login error", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Logout failed", "Logout error", err)
			return
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

// DeviceToken handles POST /api/auth/device-token. The parent requests
// a long-lived token to sign in a kid-facing tablet.
func (h *AuthHandler) DeviceToken(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}

	token, err := h.authService.IssueDeviceToken(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token", "Device token error", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type pinResetRequest struct {
	Email string `json:"email"`
}

// RequestPinReset handles POST /api/pin/reset-request
func (h *AuthHandler) RequestPinReset(w http.ResponseWriter, r *http.Request) {
	var req pinResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.authService.RequestPinReset(r.Context(), req.Email); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to send reset email", "PIN reset request error", err)
		return
	}
	// the response is the same whether or not the email exists
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset email sent"})
}

type pinResetConfirmRequest struct {
	Code string `json:"code"`
}

// ConfirmPinReset handles POST /api/pin/reset-confirm
func (h *AuthHandler) ConfirmPinReset(w http.ResponseWriter, r *http.Request) {
	var req pinResetConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	err := h.authService.ConfirmPinReset(r.Context(), req.Code)
	if errors.Is(err, service.ErrResetTokenInvalid) {
		respondWithError(w, http.StatusBadRequest, "Reset code is invalid or expired", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to reset PIN", "PIN reset error", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
}
