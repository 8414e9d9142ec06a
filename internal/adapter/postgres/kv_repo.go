package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dietcoach/internal/domain"

	"github.com/lib/pq"
)

var _ domain.KVStore = (*DB)(nil)

// Get returns the value stored under key in this scope.
func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := d.sql.QueryRowContext(ctx,
		"SELECT value FROM kv_store WHERE scope=$1 AND key=$2;", d.scope, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set upserts value under key. Last write wins.
func (d *DB) Set(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO kv_store(scope, key, value, updated_at) VALUES($1, $2, $3, $4) ON CONFLICT (scope, key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at;",
		d.scope, key, value, time.Now().UTC(),
	)
	return err
}

// Remove deletes keys in a single statement.
func (d *DB) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := d.sql.ExecContext(ctx,
		"DELETE FROM kv_store WHERE scope=$1 AND key = ANY($2);", d.scope, pq.Array(keys))
	return err
}
