package game

import "github.com/battlecards/service/internal/models"

// Rules holds the configurable sizing parameters for a match.
type Rules struct {
	DeckSize int // cards per player deck, fixed at deck selection
	HandSize int // maximum cards moved from deck to hand per draw
}

// DefaultRules returns the standard Battlecards configuration: a 9-card deck
// drawn 3 at a time (three full turns, then exhaustion).
func DefaultRules() Rules {
	return Rules{DeckSize: 9, HandSize: 3}
}

// CardSource supplies cards for deck assembly and tiebreaker reserves.
// The card catalog service implements it; tests substitute fixed pools.
type CardSource interface {
	// DrawRandom returns n cards of random type and power.
	DrawRandom(n int) []models.Card
	// DrawType returns n cards of the given type with random powers.
	DrawType(t models.CardType, n int) []models.Card
}
