package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pregweight/internal/domain"
)

var _ domain.Store = (*DB)(nil)

// Get decodes the JSON value stored under key into dst.
func (d *DB) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := d.sql.QueryRowContext(ctx, "SELECT value::text FROM kv WHERE key=$1;", key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("postgres: decode %s: %w", key, err)
	}
	return true, nil
}

// Set upserts the JSON encoding of v under key.
func (d *DB) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("postgres: encode %s: %w", key, err)
	}
	_, err = d.sql.ExecContext(ctx,
		"INSERT INTO kv(key, value, updated_at) VALUES($1, $2::jsonb, $3) ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at;",
		key, string(raw), time.Now().UTC(),
	)
	return err
}
