package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecards/service/internal/models"
)

// stubSource deals deterministic cards: requested type (or rock for random
// draws) at a fixed power.
type stubSource struct {
	power int
}

func (s stubSource) DrawRandom(n int) []models.Card {
	return repeatCards(card(models.TypeRock, s.power), n)
}

func (s stubSource) DrawType(t models.CardType, n int) []models.Card {
	return repeatCards(card(t, s.power), n)
}

func TestInvitationAccept(t *testing.T) {
	g := models.NewGame("alice", "bob")

	// Only the invited player may answer.
	requireKind(t, Accept(g, "alice"), KindForbidden)
	requireKind(t, Accept(g, "mallory"), KindForbidden)

	require.NoError(t, Accept(g, "bob"))
	assert.Equal(t, models.StatusDeckSelection, g.Status)

	// Invitation already answered.
	requireKind(t, Accept(g, "bob"), KindInvalidTransition)
	requireKind(t, Decline(g, "bob"), KindInvalidTransition)
}

func TestInvitationDecline(t *testing.T) {
	g := models.NewGame("alice", "bob")
	require.NoError(t, Decline(g, "bob"))
	assert.Equal(t, models.StatusIgnored, g.Status)
	assert.True(t, g.Status.Terminal())
	assert.Empty(t, g.Winner)

	requireKind(t, Accept(g, "bob"), KindGameAlreadyEnded)
	_, err := Draw(g, "alice", testRules)
	requireKind(t, err, KindGameAlreadyEnded)
}

func TestSelectDeckValidation(t *testing.T) {
	src := stubSource{power: 5}
	g := models.NewGame("alice", "bob")

	// Submission before the invitation is accepted.
	counts := map[models.CardType]int{models.TypeRock: 3, models.TypePaper: 3, models.TypeScissors: 3}
	requireKind(t, SelectDeck(g, "alice", counts, src, testRules), KindInvalidState)

	require.NoError(t, Accept(g, "bob"))

	requireKind(t, SelectDeck(g, "mallory", counts, src, testRules), KindForbidden)
	requireKind(t, SelectDeck(g, "alice", map[models.CardType]int{models.TypeRock: 8}, src, testRules), KindInvalidDeck)
	requireKind(t, SelectDeck(g, "alice", map[models.CardType]int{"lizard": 9}, src, testRules), KindInvalidDeck)
	requireKind(t, SelectDeck(g, "alice", map[models.CardType]int{models.TypeRock: 10, models.TypePaper: -1}, src, testRules), KindInvalidDeck)
}

func TestSelectDeckActivatesWhenBothIn(t *testing.T) {
	src := stubSource{power: 5}
	g := models.NewGame("alice", "bob")
	require.NoError(t, Accept(g, "bob"))

	counts := map[models.CardType]int{models.TypeRock: 4, models.TypePaper: 3, models.TypeScissors: 2}
	require.NoError(t, SelectDeck(g, "alice", counts, src, testRules))
	assert.Equal(t, models.StatusDeckSelection, g.Status, "waits for the second deck")
	assert.True(t, g.Players[models.SidePlayer1].DeckSelected)

	// Composition matches the requested counts.
	deck := g.Players[models.SidePlayer1].Deck
	require.Len(t, deck, testRules.DeckSize)
	got := map[models.CardType]int{}
	for _, c := range deck {
		got[c.Type]++
	}
	assert.Equal(t, counts, got)

	// Re-submission is rejected.
	requireKind(t, SelectDeck(g, "alice", counts, src, testRules), KindInvalidState)

	require.NoError(t, SelectDeck(g, "bob", counts, src, testRules))
	assert.Equal(t, models.StatusActive, g.Status)
}

func TestEndGameForcesAbandoned(t *testing.T) {
	g := newActiveGame(
		repeatCards(card(models.TypeRock, 5), 9),
		repeatCards(card(models.TypeScissors, 9), 9),
	)
	require.NoError(t, End(g, "bob"))
	assert.Equal(t, models.StatusAbandoned, g.Status)
	assert.Empty(t, g.Winner)

	// Pending games can be ended too.
	g2 := models.NewGame("alice", "bob")
	require.NoError(t, End(g2, "alice"))
	assert.Equal(t, models.StatusAbandoned, g2.Status)

	requireKind(t, End(g2, "alice"), KindGameAlreadyEnded)
}

func TestDeckExhaustionWithWinner(t *testing.T) {
	// Single-turn decks; alice takes the round, scores diverge, game ends.
	g := newActiveGame(
		repeatCards(card(models.TypeRock, 5), 3),
		repeatCards(card(models.TypeScissors, 9), 3),
	)

	res := playTurn(t, g)
	require.True(t, res.RoundResolved)
	assert.True(t, res.Round.GameEnded)
	assert.Equal(t, models.StatusCompleted, g.Status)
	assert.Equal(t, "alice", g.Winner)
	assert.False(t, g.AwaitingTiebreaker)
}

func TestDeckExhaustionTieOpensTiebreaker(t *testing.T) {
	g := newActiveGame(
		repeatCards(card(models.TypeScissors, 4), 3),
		repeatCards(card(models.TypeScissors, 4), 3),
	)

	res := playTurn(t, g)
	require.True(t, res.RoundResolved)
	assert.True(t, res.Round.Tiebreaker)
	assert.False(t, res.Round.GameEnded)

	// Game halts: still active, awaiting both decisions.
	assert.Equal(t, models.StatusActive, g.Status)
	assert.True(t, g.AwaitingTiebreaker)
	assert.Empty(t, g.Winner)

	// Turn actions are locked while the tiebreaker is pending.
	_, err := Draw(g, "alice", testRules)
	requireKind(t, err, KindInvalidState)
	_, err = PlayTiebreaker(g, "alice")
	requireKind(t, err, KindInvalidState)
}

// exhaustedTie returns a game parked at the tiebreaker offer.
func exhaustedTie(t *testing.T) *models.Game {
	t.Helper()
	g := newActiveGame(
		repeatCards(card(models.TypeScissors, 4), 3),
		repeatCards(card(models.TypeScissors, 4), 3),
	)
	playTurn(t, g)
	require.True(t, g.AwaitingTiebreaker)
	return g
}

func TestTiebreakerDecisionValidation(t *testing.T) {
	src := stubSource{power: 6}

	// Not awaiting.
	g := newActiveGame(
		repeatCards(card(models.TypeRock, 5), 9),
		repeatCards(card(models.TypeScissors, 9), 9),
	)
	requireKind(t, RecordTiebreakerDecision(g, "alice", models.DecisionYes, src), KindInvalidState)

	g = exhaustedTie(t)
	requireKind(t, RecordTiebreakerDecision(g, "mallory", models.DecisionYes, src), KindForbidden)
	requireKind(t, RecordTiebreakerDecision(g, "alice", "maybe", src), KindInvalidState)

	require.NoError(t, RecordTiebreakerDecision(g, "alice", models.DecisionYes, src))
	requireKind(t, RecordTiebreakerDecision(g, "alice", models.DecisionYes, src), KindInvalidState)
}

func TestTiebreakerDeclineCompletesAsTie(t *testing.T) {
	src := stubSource{power: 6}
	g := exhaustedTie(t)

	require.NoError(t, RecordTiebreakerDecision(g, "alice", models.DecisionNo, src))
	assert.Equal(t, models.StatusCompleted, g.Status)
	assert.Empty(t, g.Winner, "declined tiebreaker ends as a no-winner tie")
	assert.False(t, g.AwaitingTiebreaker)
}

func TestTiebreakerSuddenDeath(t *testing.T) {
	g := exhaustedTie(t)

	require.NoError(t, RecordTiebreakerDecision(g, "alice", models.DecisionYes, stubSource{power: 6}))
	assert.True(t, g.AwaitingTiebreaker, "still waiting on the opponent")

	// Give the players distinct reserved cards so the sudden death decides.
	require.NoError(t, RecordTiebreakerDecision(g, "bob", models.DecisionYes, stubSource{power: 6}))
	assert.False(t, g.AwaitingTiebreaker)
	require.NotNil(t, g.Players[models.SidePlayer1].TiebreakerCard)
	require.NotNil(t, g.Players[models.SidePlayer2].TiebreakerCard)

	g.Players[models.SidePlayer1].TiebreakerCard = &models.Card{Type: models.TypePaper, Power: 8}
	g.Players[models.SidePlayer2].TiebreakerCard = &models.Card{Type: models.TypeRock, Power: 11}

	res, err := PlayTiebreaker(g, "alice")
	require.NoError(t, err)
	assert.False(t, res.RoundResolved)

	_, err = PlayTiebreaker(g, "alice")
	requireKind(t, err, KindAlreadyPlayed)

	res, err = PlayTiebreaker(g, "bob")
	require.NoError(t, err)
	require.True(t, res.RoundResolved)
	assert.Equal(t, "alice", res.Round.Winner, "paper covers rock")
	assert.Equal(t, 8, res.Round.Points)
	assert.True(t, res.Round.GameEnded)

	assert.Equal(t, models.StatusCompleted, g.Status)
	assert.Equal(t, "alice", g.Winner)
	assert.Equal(t, 8, g.Players[models.SidePlayer1].Score-g.Players[models.SidePlayer2].Score)
}

func TestTiebreakerSuddenDeathTie(t *testing.T) {
	g := exhaustedTie(t)
	require.NoError(t, RecordTiebreakerDecision(g, "alice", models.DecisionYes, stubSource{power: 6}))
	require.NoError(t, RecordTiebreakerDecision(g, "bob", models.DecisionYes, stubSource{power: 6}))

	// Both reserved cards identical: the sudden death also ties.
	_, err := PlayTiebreaker(g, "alice")
	require.NoError(t, err)
	res, err := PlayTiebreaker(g, "bob")
	require.NoError(t, err)
	require.True(t, res.RoundResolved)
	assert.Empty(t, res.Round.Winner)

	assert.Equal(t, models.StatusCompleted, g.Status)
	assert.Empty(t, g.Winner)
}

func TestTiebreakerDrawsRemainingDeckCard(t *testing.T) {
	// A leftover deck card is used as the reserved card in preference to a
	// fresh catalog draw.
	g := exhaustedTie(t)
	leftover := card(models.TypePaper, 12)
	g.Players[models.SidePlayer1].Deck = []models.Card{leftover}

	require.NoError(t, RecordTiebreakerDecision(g, "alice", models.DecisionYes, stubSource{power: 6}))
	require.NoError(t, RecordTiebreakerDecision(g, "bob", models.DecisionYes, stubSource{power: 6}))

	require.NotNil(t, g.Players[models.SidePlayer1].TiebreakerCard)
	assert.Equal(t, leftover, *g.Players[models.SidePlayer1].TiebreakerCard)
	assert.Empty(t, g.Players[models.SidePlayer1].Deck)
	assert.Equal(t, card(models.TypeRock, 6), *g.Players[models.SidePlayer2].TiebreakerCard)
}
