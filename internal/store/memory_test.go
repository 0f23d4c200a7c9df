package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecards/service/internal/game"
	"github.com/battlecards/service/internal/models"
)

var testRules = game.Rules{DeckSize: 9, HandSize: 3}

func activeGame() *models.Game {
	g := models.NewGame("alice", "bob")
	g.Status = models.StatusActive
	for i := range g.Players {
		deck := make([]models.Card, 9)
		for j := range deck {
			deck[j] = models.Card{Type: models.TypeRock, Power: 5}
		}
		g.Players[i].Deck = deck
		g.Players[i].DeckSelected = true
	}
	g.Players[models.SidePlayer2].Deck[0] = models.Card{Type: models.TypeScissors, Power: 9}
	return g
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := activeGame()
	require.NoError(t, s.Create(ctx, g))

	got, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)

	// Mutating the returned copy must not touch the stored record.
	got.Players[0].Score = 99
	again, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Players[0].Score)

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRejectedUpdateLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := activeGame()
	require.NoError(t, s.Create(ctx, g))

	before, err := s.Get(ctx, g.ID)
	require.NoError(t, err)

	// Play before draw is rejected inside the update closure.
	_, err = s.Update(ctx, g.ID, func(g *models.Game) error {
		_, err := game.Play(g, "alice", 0, testRules)
		return err
	})
	require.Error(t, err)
	kind, ok := game.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, game.KindMustDrawFirst, kind)

	after, err := s.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "rejected action must not be visible")
}

// TestConcurrentPlaysResolveOnce races both players' Play requests and
// checks the round resolved exactly once: one score update, one turn
// increment, never two.
func TestConcurrentPlaysResolveOnce(t *testing.T) {
	ctx := context.Background()

	for iter := 0; iter < 100; iter++ {
		s := NewMemoryStore()
		g := activeGame()
		require.NoError(t, s.Create(ctx, g))

		for _, name := range []string{"alice", "bob"} {
			_, err := s.Update(ctx, g.ID, func(g *models.Game) error {
				_, err := game.Draw(g, name, testRules)
				return err
			})
			require.NoError(t, err)
		}

		var wg sync.WaitGroup
		resolved := make([]bool, 2)
		errs := make([]error, 2)
		for i, name := range []string{"alice", "bob"} {
			wg.Add(1)
			go func(i int, name string) {
				defer wg.Done()
				_, errs[i] = s.Update(ctx, g.ID, func(g *models.Game) error {
					res, err := game.Play(g, name, 0, testRules)
					if err != nil {
						return err
					}
					resolved[i] = res.RoundResolved
					return nil
				})
			}(i, name)
		}
		wg.Wait()
		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		assert.NotEqual(t, resolved[0], resolved[1], "exactly one play observes the resolution")

		final, err := s.Get(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, final.Turn)
		total := final.Players[0].Score + final.Players[1].Score
		assert.Equal(t, 5, total, "winner scored exactly once")
	}
}
