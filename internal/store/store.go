// Package store defines the persistence boundary for game records. The
// engine requires exactly one guarantee from any implementation: Update is
// an atomic read-modify-write per game id, so a failed mutation is never
// partially visible and two racing requests are serialized.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/battlecards/service/internal/models"
)

// ErrNotFound is returned when no game exists under the requested id.
var ErrNotFound = errors.New("game not found")

// UpdateFunc mutates a game in place. Returning an error aborts the update
// and leaves the stored record unchanged.
type UpdateFunc func(*models.Game) error

// Store is the game persistence contract.
type Store interface {
	// Create persists a new game record.
	Create(ctx context.Context, g *models.Game) error

	// Get returns a copy of the game, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Game, error)

	// Update loads the game, applies fn under exclusive ownership of the
	// record, and persists the result. On error nothing is written. The
	// returned game reflects the persisted state after fn.
	Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (*models.Game, error)

	// ListByPlayer returns every game the named player participates in,
	// newest first.
	ListByPlayer(ctx context.Context, name string) ([]*models.Game, error)
}
