package service

import (
	"context"
	"errors"
	"testing"

	"spellmaster/internal/models"
	"spellmaster/internal/storage"
)

func TestCreateChild(t *testing.T) {
	store, _ := newTestStore()
	svc := NewChildService(store)
	ctx := context.Background()

	child, err := svc.CreateChild(ctx, "Ada")
	if err != nil {
		t.Fatalf("CreateChild() error = %v", err)
	}
	if child.ID == "" || child.Name != "Ada" || child.Level != "1" || child.XP != 0 {
		t.Errorf("CreateChild() = %+v", child)
	}
	if child.AvatarColor == "" {
		t.Error("CreateChild() should assign an avatar color")
	}

	// the first child becomes active
	active, err := svc.ActiveChild(ctx)
	if err != nil {
		t.Fatalf("ActiveChild() error = %v", err)
	}
	if active.ID != child.ID {
		t.Errorf("ActiveChild() = %q, want %q", active.ID, child.ID)
	}
}

func TestCreateChildGeneratesName(t *testing.T) {
	store, _ := newTestStore()
	svc := NewChildService(store)

	child, err := svc.CreateChild(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateChild() error = %v", err)
	}
	if child.Name == "" {
		t.Error("CreateChild() should generate a name when none is given")
	}
}

func TestInitSelectsFirstChild(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	children := []models.ChildProfile{
		{ID: "c1", Name: "Ada", Level: "1", AvatarColor: "#FF6B6B"},
		{ID: "c2", Name: "Sam", Level: "1", AvatarColor: "#4ECDC4"},
	}
	if err := storage.Set(ctx, store, storage.KeyChildProfiles, children); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	svc := NewChildService(store)
	if err := svc.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	active, err := svc.ActiveChild(ctx)
	if err != nil {
		t.Fatalf("ActiveChild() error = %v", err)
	}
	if active.ID != "c1" {
		t.Errorf("ActiveChild() = %q, want first stored child", active.ID)
	}
}

func TestActiveChildWithoutProfiles(t *testing.T) {
	store, _ := newTestStore()
	svc := NewChildService(store)

	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	_, err := svc.ActiveChild(context.Background())
	if !errors.Is(err, ErrNoActiveChild) {
		t.Errorf("ActiveChild() error = %v, want ErrNoActiveChild", err)
	}
}

func TestInitWithCorruptProfiles(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"not a": list`},
		{"wrong shape", `{"id":"c1"}`},
		{"invalid element", `[{"id":"c1","name":"Ada","level":"1","xp":"lots"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mem := newTestStore()
			mem.data[string(storage.KeyChildProfiles)] = tt.raw
			ctx := context.Background()

			svc := NewChildService(store)
			if err := svc.Init(ctx); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			_, err := svc.ActiveChild(ctx)
			if !errors.Is(err, ErrNoActiveChild) {
				t.Errorf("ActiveChild() error = %v, want ErrNoActiveChild", err)
			}
		})
	}
}

func TestSetActiveChildClearsSelection(t *testing.T) {
	store, _ := newTestStore()
	svc := NewChildService(store)
	ctx := context.Background()

	child, err := svc.CreateChild(ctx, "Ada")
	if err != nil {
		t.Fatalf("CreateChild() error = %v", err)
	}
	if err := svc.SetActiveChild(ctx, child.ID); err != nil {
		t.Fatalf("SetActiveChild() error = %v", err)
	}

	var notified []models.ChildProfile
	svc.Subscribe(func(child models.ChildProfile) {
		notified = append(notified, child)
	})

	// an empty ID switches back to the parent playing directly
	if err := svc.SetActiveChild(ctx, ""); err != nil {
		t.Fatalf("SetActiveChild(\"\") error = %v", err)
	}
	if _, err := svc.ActiveChild(ctx); !errors.Is(err, ErrNoActiveChild) {
		t.Errorf("ActiveChild() error = %v, want ErrNoActiveChild", err)
	}
	if len(notified) != 1 || notified[0].ID != "" {
		t.Errorf("subscribers got %v, want one zero profile", notified)
	}
}

func TestSetActiveChildNotifiesSubscribers(t *testing.T) {
	store, _ := newTestStore()
	svc := NewChildService(store)
	ctx := context.Background()

	first, err := svc.CreateChild(ctx, "Ada")
	if err != nil {
		t.Fatalf("CreateChild() error = %v", err)
	}
	second, err := svc.CreateChild(ctx, "Sam")
	if err != nil {
		t.Fatalf("CreateChild() error = %v", err)
	}

	var notified []string
	svc.Subscribe(func(child models.ChildProfile) {
		notified = append(notified, child.ID)
	})

	if err := svc.SetActiveChild(ctx, second.ID); err != nil {
		t.Fatalf("SetActiveChild() error = %v", err)
	}
	if err := svc.SetActiveChild(ctx, first.ID); err != nil {
		t.Fatalf("SetActiveChild() error = %v", err)
	}

	if len(notified) != 2 || notified[0] != second.ID || notified[1] != first.ID {
		t.Errorf("notifications = %v, want [%s %s]", notified, second.ID, first.ID)
	}

	if err := svc.SetActiveChild(ctx, "missing"); err == nil {
		t.Error("SetActiveChild() should fail for an unknown child")
	}
}
