package service

import (
	"context"
	"testing"

	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{0, "1"},
		{99, "1"},
		{100, "2"},
		{299, "2"},
		{300, "3"},
		{599, "3"},
		{600, "4"},
		{999, "4"},
		{1000, "5"},
		{50000, "5"},
		{-10, "1"},
	}

	for _, tt := range tests {
		if got := ResolveLevel(tt.xp).ID; got != tt.want {
			t.Errorf("ResolveLevel(%d) = %q, want %q", tt.xp, got, tt.want)
		}
	}
}

func TestGetProfileCreatesDefault(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProfileService(store)

	profile, err := svc.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.XP != 0 || profile.Level != "1" {
		t.Errorf("GetProfile() = %+v, want XP=0 Level=1", profile)
	}
}

func TestGetProfileCorrectsStaleLevel(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	// stored level disagrees with the XP
	stale := models.UserProfile{XP: 450, Level: "1"}
	if err := storage.Set(ctx, store, storage.KeyUserProfile, stale); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	svc := NewProfileService(store)
	profile, err := svc.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.Level != "3" {
		t.Errorf("GetProfile().Level = %q, want corrected %q", profile.Level, "3")
	}

	// the correction must be persisted, not just returned
	persisted, found, err := storage.Get[models.UserProfile](ctx, store, storage.KeyUserProfile)
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if persisted.Level != "3" {
		t.Errorf("persisted level = %q, want %q", persisted.Level, "3")
	}
}

func TestAddXP(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProfileService(store)
	ctx := context.Background()

	profile, err := svc.AddXP(ctx, 150)
	if err != nil {
		t.Fatalf("AddXP() error = %v", err)
	}
	if profile.XP != 150 || profile.Level != "2" {
		t.Errorf("AddXP(150) = %+v, want XP=150 Level=2", profile)
	}
	if profile.LastPlayed == nil {
		t.Error("AddXP() should stamp LastPlayed")
	}

	// level boundaries are crossed both ways
	profile, err = svc.AddXP(ctx, -100)
	if err != nil {
		t.Fatalf("AddXP() error = %v", err)
	}
	if profile.XP != 50 || profile.Level != "1" {
		t.Errorf("AddXP(-100) = %+v, want XP=50 Level=1", profile)
	}
}

func TestAddXPFloorsAtZero(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProfileService(store)
	ctx := context.Background()

	if _, err := svc.AddXP(ctx, 30); err != nil {
		t.Fatalf("AddXP() error = %v", err)
	}
	profile, err := svc.AddXP(ctx, -500)
	if err != nil {
		t.Fatalf("AddXP() error = %v", err)
	}
	if profile.XP != 0 {
		t.Errorf("AddXP() XP = %d, want floor at 0", profile.XP)
	}
}

func TestAddChildXP(t *testing.T) {
	store, _ := newTestStore()
	svc := NewProfileService(store)
	ctx := context.Background()

	children := []models.ChildProfile{
		{ID: "c1", Name: "Ada", Level: "1", XP: 80, AvatarColor: "#FF6B6B"},
		{ID: "c2", Name: "Sam", Level: "1", XP: 0, AvatarColor: "#4ECDC4"},
	}
	if err := storage.Set(ctx, store, storage.KeyChildProfiles, children); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	child, err := svc.AddChildXP(ctx, "c1", 40)
	if err != nil {
		t.Fatalf("AddChildXP() error = %v", err)
	}
	if child.XP != 120 || child.Level != "2" {
		t.Errorf("AddChildXP() = %+v, want XP=120 Level=2", child)
	}

	// the sibling is untouched
	stored, _, _ := storage.Get[[]models.ChildProfile](ctx, store, storage.KeyChildProfiles)
	if stored[1].XP != 0 {
		t.Errorf("sibling XP = %d, want 0", stored[1].XP)
	}

	if _, err := svc.AddChildXP(ctx, "missing", 10); err == nil {
		t.Error("AddChildXP() should fail for an unknown child")
	}
}
