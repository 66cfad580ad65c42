package service

import (
	"context"

	"spellmaster/internal/storage"
)

// memStore is an in-memory TextStore shared by service tests
type memStore struct {
	data map[string]string
}

func newTestStore() (*storage.Store, *memStore) {
	mem := &memStore{data: make(map[string]string)}
	return storage.NewStore(mem), mem
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
