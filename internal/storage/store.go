package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"spellmaster/internal/validation"
)

// TextStore is the raw persistence surface the typed store sits on.
// Values are opaque strings; the backing table treats them as text.
type TextStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store wraps a TextStore with JSON encoding and per-key shape
// validation. Reads that fail validation are reported as absent so a
// corrupt row can never poison callers; the bad value is left in place
// and logged for inspection.
type Store struct {
	backend TextStore
}

func NewStore(backend TextStore) *Store {
	return &Store{backend: backend}
}

// Get loads and decodes the value under key. The second return value is
// false when the key is unset, or when the stored value is corrupt or
// fails the key's shape check.
func Get[T any](ctx context.Context, s *Store, key Key) (T, bool, error) {
	var zero T

	raw, found, err := s.backend.Get(ctx, string(key))
	if err != nil {
		return zero, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !found {
		return zero, false, nil
	}

	validate := validation.ForKey(string(key))
	if validate == nil {
		return zero, false, fmt.Errorf("no validator registered for key %q", key)
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		log.Printf("WARN: discarding corrupt value for key %q: %v", key, err)
		return zero, false, nil
	}
	if !validate(decoded) {
		log.Printf("WARN: discarding invalid value for key %q", key)
		return zero, false, nil
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		log.Printf("WARN: discarding undecodable value for key %q: %v", key, err)
		return zero, false, nil
	}
	return value, true, nil
}

// Set encodes value and writes it under key. Last write wins; there is
// no read-modify-write locking at this layer.
func Set[T any](ctx context.Context, s *Store, key Key, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := s.backend.Set(ctx, string(key), string(raw)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value under key. Removing an unset key is not an
// error.
func (s *Store) Remove(ctx context.Context, key Key) error {
	if err := s.backend.Remove(ctx, string(key)); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}
