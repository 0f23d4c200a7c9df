package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LeaderboardEntry is one player's aggregate standing across completed games.
type LeaderboardEntry struct {
	Player string `json:"player"`
	Played int    `json:"played"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
	Points int    `json:"points"`
}

// Leaderboard aggregates completed games into per-player standings, ordered
// by wins then points.
func Leaderboard(ctx context.Context, pool *pgxpool.Pool, limit int) ([]LeaderboardEntry, error) {
	rows, err := pool.Query(ctx, `
		SELECT name,
		       COUNT(*)                                          AS played,
		       COUNT(*) FILTER (WHERE winner = name)             AS wins,
		       COUNT(*) FILTER (WHERE winner <> '' AND winner <> name) AS losses,
		       COUNT(*) FILTER (WHERE winner = '')               AS ties,
		       COALESCE(SUM(score), 0)                           AS points
		FROM (
			SELECT player1 AS name, player1_score AS score, winner
			FROM games WHERE status = 'completed'
			UNION ALL
			SELECT player2 AS name, player2_score AS score, winner
			FROM games WHERE status = 'completed'
		) plays
		GROUP BY name
		ORDER BY wins DESC, points DESC, name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Player, &e.Played, &e.Wins, &e.Losses, &e.Ties, &e.Points); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
