package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spellmaster/internal/security"
	"spellmaster/internal/service"
)

func newDeviceMiddleware() (*Middleware, *security.TokenIssuer) {
	tokens := security.NewTokenIssuer("test-signing-key", time.Hour)
	authService := service.NewAuthService(nil, nil, nil, tokens, time.Hour)
	return NewMiddleware(authService, nil), tokens
}

func TestRequireDeviceRejectsAnonymous(t *testing.T) {
	middleware, _ := newDeviceMiddleware()

	handler := middleware.RequireDevice(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without a token")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("GET", "/api/profile", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			handler(recorder, request)

			if recorder.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", recorder.Code)
			}
		})
	}
}

func TestRequireDevicePassesValidToken(t *testing.T) {
	middleware, tokens := newDeviceMiddleware()

	token, err := tokens.Issue(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var gotUserID int64
	handler := middleware.RequireDevice(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := DeviceFromContext(r.Context())
		if !ok {
			t.Fatal("device claims missing from context")
		}
		gotUserID = claims.UserID
		w.WriteHeader(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/profile", nil)
	request.Header.Set("Authorization", "Bearer "+token)

	handler(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if gotUserID != 42 {
		t.Errorf("claims user = %d, want 42", gotUserID)
	}
}

func TestRequireDeviceRejectsWrongKey(t *testing.T) {
	middleware, _ := newDeviceMiddleware()

	other := security.NewTokenIssuer("different-key", time.Hour)
	token, err := other.Issue(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := middleware.RequireDevice(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached with a foreign token")
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/profile", nil)
	request.Header.Set("Authorization", "Bearer "+token)

	handler(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}
