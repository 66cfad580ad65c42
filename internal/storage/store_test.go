package storage

import (
	"context"
	"testing"

	"spellmaster/internal/models"
	"spellmaster/internal/validation"
)

// memStore is an in-memory TextStore for tests
type memStore struct {
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
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

func TestAllKeysHaveValidators(t *testing.T) {
	for _, key := range AllKeys() {
		if validation.ForKey(string(key)) == nil {
			t.Errorf("key %q has no registered validator", key)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	mem := newMemStore()
	store := NewStore(mem)
	ctx := context.Background()

	profile := models.UserProfile{XP: 150, Level: "2"}
	if err := Set(ctx, store, KeyUserProfile, profile); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, found, err := Get[models.UserProfile](ctx, store, KeyUserProfile)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false, want true")
	}
	if got.XP != 150 || got.Level != "2" {
		t.Errorf("Get() = %+v, want XP=150 Level=2", got)
	}
}

func TestStoreAbsentKey(t *testing.T) {
	store := NewStore(newMemStore())

	_, found, err := Get[models.UserProfile](context.Background(), store, KeyUserProfile)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for unset key, want false")
	}
}

func TestStoreCorruptValueTreatedAsAbsent(t *testing.T) {
	mem := newMemStore()
	store := NewStore(mem)
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not JSON", raw: `{xp: oops`},
		{name: "wrong shape", raw: `{"xp": "lots", "level": 2}`},
		{name: "wrong container", raw: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem.data[string(KeyUserProfile)] = tt.raw

			_, found, err := Get[models.UserProfile](ctx, store, KeyUserProfile)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if found {
				t.Error("Get() found = true for corrupt value, want false")
			}
			if _, still := mem.data[string(KeyUserProfile)]; !still {
				t.Error("corrupt value was deleted, want it left in place")
			}
		})
	}
}

func TestStoreRemove(t *testing.T) {
	mem := newMemStore()
	store := NewStore(mem)
	ctx := context.Background()

	if err := Set(ctx, store, KeyPinVerified, true); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Remove(ctx, KeyPinVerified); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, found, _ := Get[bool](ctx, store, KeyPinVerified); found {
		t.Error("Get() found = true after Remove(), want false")
	}

	// removing again is a no-op
	if err := store.Remove(ctx, KeyPinVerified); err != nil {
		t.Errorf("Remove() of unset key error = %v, want nil", err)
	}
}

func TestStoreMapValue(t *testing.T) {
	mem := newMemStore()
	store := NewStore(mem)
	ctx := context.Background()

	if err := Set(ctx, store, KeyTutorialFlags, map[string]bool{"home": true}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	flags, found, err := Get[map[string]bool](ctx, store, KeyTutorialFlags)
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if !flags["home"] {
		t.Errorf("flags = %v, want home=true", flags)
	}
}
