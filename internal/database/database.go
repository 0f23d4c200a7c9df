// Package database owns the postgres connection pool and schema for the
// auth, game, and leaderboard services.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup. The games table duplicates the
// fields the leaderboard aggregates over (players, status, winner, scores) as
// indexed columns next to the serialized aggregate.
const schema = `
CREATE TABLE IF NOT EXISTS users (
  id UUID PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS games (
  id UUID PRIMARY KEY,
  player1 TEXT NOT NULL,
  player2 TEXT NOT NULL,
  status TEXT NOT NULL,
  winner TEXT NOT NULL DEFAULT '',
  player1_score INTEGER NOT NULL DEFAULT 0,
  player2_score INTEGER NOT NULL DEFAULT 0,
  state JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS games_player1_idx ON games (player1);
CREATE INDEX IF NOT EXISTS games_player2_idx ON games (player2);
CREATE INDEX IF NOT EXISTS games_status_idx ON games (status);
`

// Connect opens a pgx pool against url, verifies connectivity, and applies
// the schema.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return pool, nil
}
