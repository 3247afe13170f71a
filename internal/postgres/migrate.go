package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the room state table if it is missing. The store is a
// plain key/value document table; each logical key holds one whole JSON
// value that is read and rewritten in full.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS room_state (
    key        text PRIMARY KEY,
    value      jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
);`

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure room_state: %w", err)
	}
	return nil
}
