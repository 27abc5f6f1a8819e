package state

import (
	"context"
	"database/sql"
	"errors"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

// Get returns the value stored for scope/key.
func (s *PGStore) Get(ctx context.Context, scope, key string) (string, error) {
	const query = `
SELECT value
FROM kv_state
WHERE scope = $1 AND key = $2`
	var value string
	err := s.DB.QueryRowContext(ctx, query, scope, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set upserts the value for scope/key.
func (s *PGStore) Set(ctx context.Context, scope, key, value string) error {
	const query = `
INSERT INTO kv_state (scope, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query, scope, key, value)
	return err
}

// Delete removes the value for scope/key. Deleting an absent key is not an error.
func (s *PGStore) Delete(ctx context.Context, scope, key string) error {
	const query = `
DELETE FROM kv_state
WHERE scope = $1 AND key = $2`
	_, err := s.DB.ExecContext(ctx, query, scope, key)
	return err
}

var _ Store = (*PGStore)(nil)
