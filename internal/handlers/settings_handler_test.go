package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

// memStore is an in-memory TextStore for handler tests
type memStore struct {
	data map[string]string
}

func newHandlerStore() *storage.Store {
	return storage.NewStore(&memStore{data: make(map[string]string)})
}

func (m *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(ctx context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Remove(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestGetThemeDefaults(t *testing.T) {
	handler := NewSettingsHandler(newHandlerStore())

	recorder := httptest.NewRecorder()
	handler.GetTheme(recorder, httptest.NewRequest("GET", "/api/settings/theme", nil))

	if recorder.Code != 200 {
		t.Fatalf("status = %d", recorder.Code)
	}
	var theme models.ThemeSettings
	if err := json.Unmarshal(recorder.Body.Bytes(), &theme); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if theme.Mode != "light" {
		t.Errorf("default theme = %q, want light", theme.Mode)
	}
}

func TestSetThemeRoundTrip(t *testing.T) {
	handler := NewSettingsHandler(newHandlerStore())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/settings/theme", strings.NewReader(`{"mode":"dark"}`))
	handler.SetTheme(recorder, request)
	if recorder.Code != 200 {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body)
	}

	recorder = httptest.NewRecorder()
	handler.GetTheme(recorder, httptest.NewRequest("GET", "/api/settings/theme", nil))
	var theme models.ThemeSettings
	if err := json.Unmarshal(recorder.Body.Bytes(), &theme); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if theme.Mode != "dark" {
		t.Errorf("theme = %q, want dark", theme.Mode)
	}
}

func TestSetThemeRejectsUnknownMode(t *testing.T) {
	handler := NewSettingsHandler(newHandlerStore())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/settings/theme", strings.NewReader(`{"mode":"neon"}`))
	handler.SetTheme(recorder, request)

	if recorder.Code != 400 {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestSetSoundRejectsBadVolume(t *testing.T) {
	handler := NewSettingsHandler(newHandlerStore())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/settings/sound", strings.NewReader(`{"enabled":true,"volume":150}`))
	handler.SetSound(recorder, request)

	if recorder.Code != 400 {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestMarkTutorialSeen(t *testing.T) {
	handler := NewSettingsHandler(newHandlerStore())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/settings/tutorial", strings.NewReader(`{"screen":"home"}`))
	handler.MarkTutorialSeen(recorder, request)
	if recorder.Code != 200 {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body)
	}

	recorder = httptest.NewRecorder()
	handler.GetTutorialFlags(recorder, httptest.NewRequest("GET", "/api/settings/tutorial", nil))
	var flags models.TutorialFlags
	if err := json.Unmarshal(recorder.Body.Bytes(), &flags); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if !flags["home"] {
		t.Errorf("flags = %v, want home=true", flags)
	}
}
