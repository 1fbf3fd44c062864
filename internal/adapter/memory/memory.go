// Package memory implements an in-memory key-value store for development and testing.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pregweight/internal/domain"
)

// DB implements an in-memory key-value store. Values are kept JSON-encoded
// so callers never share memory with what is stored.
type DB struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int
}

// New creates a new in-memory store.
func New() *DB {
	return &DB{values: make(map[string][]byte)}
}

// Ensure interfaces are met.
var _ domain.Store = (*DB)(nil)

// Get decodes the value stored under key into dst.
func (db *DB) Get(ctx context.Context, key string, dst any) (bool, error) {
	db.mu.Lock()
	raw, ok := db.values[key]
	db.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("memory: decode %s: %w", key, err)
	}
	return true, nil
}

// Set encodes v and stores it under key.
func (db *DB) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("memory: encode %s: %w", key, err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.values[key] = raw
	db.writes++
	return nil
}

// Delete removes key. Missing keys are ignored.
func (db *DB) Delete(key string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.values, key)
}

// Writes returns how many Set calls have succeeded.
func (db *DB) Writes() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.writes
}
