package repository

import (
	"context"
	"database/sql"
	"fmt"

	"spellmaster/internal/database"
)

// KVRepository persists opaque string values in the kv_entries table.
// It is the backing TextStore for the typed storage layer.
type KVRepository struct {
	db database.DBTX
}

// NewKVRepository creates a new KV repository
func NewKVRepository(db database.DBTX) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key. The second return value is
// false when the key is unset.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM kv_entries WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get kv entry: %w", err)
	}
	return value, true, nil
}

// Set inserts or replaces the value under key
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(r.db.GetDialect().UpsertKV(), key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv entry: %w", err)
	}
	return nil
}

// Remove deletes the value under key. Deleting an unset key is a no-op.
func (r *KVRepository) Remove(ctx context.Context, key string) error {
	_, err := r.db.Exec("DELETE FROM kv_entries WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to remove kv entry: %w", err)
	}
	return nil
}

// Keys lists every stored key, for diagnostics and tests
func (r *KVRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query("SELECT key FROM kv_entries ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list kv entries: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan kv key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
