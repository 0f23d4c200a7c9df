package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/battlecards/service/internal/models"
	"github.com/battlecards/service/internal/store"
)

// GameStore is the postgres store.Store implementation. Per-game atomicity
// comes from SELECT ... FOR UPDATE inside a transaction: the row lock
// serializes concurrent actions against one game, so two racing plays can
// never both observe the pre-resolution state.
type GameStore struct {
	pool *pgxpool.Pool
}

// NewGameStore wraps an open pool.
func NewGameStore(pool *pgxpool.Pool) *GameStore {
	return &GameStore{pool: pool}
}

var _ store.Store = (*GameStore)(nil)

func (s *GameStore) Create(ctx context.Context, g *models.Game) error {
	state, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO games (id, player1, player2, status, winner, player1_score, player2_score, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		g.ID,
		g.Players[models.SidePlayer1].Name,
		g.Players[models.SidePlayer2].Name,
		g.Status,
		g.Winner,
		g.Players[models.SidePlayer1].Score,
		g.Players[models.SidePlayer2].Score,
		state,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (s *GameStore) Get(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var state []byte
	err := s.pool.QueryRow(ctx, `SELECT state FROM games WHERE id = $1`, id).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select game: %w", err)
	}
	return decodeGame(state)
}

func (s *GameStore) Update(ctx context.Context, id uuid.UUID, fn store.UpdateFunc) (*models.Game, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var state []byte
	err = tx.QueryRow(ctx, `SELECT state FROM games WHERE id = $1 FOR UPDATE`, id).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock game: %w", err)
	}

	g, err := decodeGame(state)
	if err != nil {
		return nil, err
	}
	if err := fn(g); err != nil {
		// Rule rejection: roll back, persisted record stays unchanged.
		return nil, err
	}
	g.UpdatedAt = time.Now().UTC()

	next, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal game: %w", err)
	}
	_, err = tx.Exec(ctx, `
		UPDATE games
		SET status = $2, winner = $3, player1_score = $4, player2_score = $5, state = $6, updated_at = $7
		WHERE id = $1`,
		id,
		g.Status,
		g.Winner,
		g.Players[models.SidePlayer1].Score,
		g.Players[models.SidePlayer2].Score,
		next,
		g.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return g, nil
}

func (s *GameStore) ListByPlayer(ctx context.Context, name string) ([]*models.Game, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT state FROM games
		WHERE player1 = $1 OR player2 = $1
		ORDER BY created_at DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []*models.Game
	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g, err := decodeGame(state)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func decodeGame(state []byte) (*models.Game, error) {
	var g models.Game
	if err := json.Unmarshal(state, &g); err != nil {
		return nil, fmt.Errorf("unmarshal game: %w", err)
	}
	return &g, nil
}
