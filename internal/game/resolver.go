// Package game implements the Battlecards turn engine: round resolution,
// per-turn draw/play sequencing, and the game lifecycle state machine.
//
// Functions in this package mutate a single *models.Game in place and report
// rule violations as *RuleError. Callers are responsible for applying each
// mutation inside the store's atomic read-modify-write so that a returned
// error leaves the persisted record untouched.
package game

import "github.com/battlecards/service/internal/models"

// Outcome is the result of resolving one round.
type Outcome int

const (
	OutcomeTie Outcome = iota
	OutcomePlayer1
	OutcomePlayer2
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayer1:
		return "player1"
	case OutcomePlayer2:
		return "player2"
	}
	return "tie"
}

// Resolve compares two played cards and returns the round outcome.
// Same type: higher power wins, equal power ties. Different types:
// rock beats scissors, scissors beats paper, paper beats rock, power ignored.
// Pure function; every (type, power) pair is a valid input.
func Resolve(p1, p2 models.Card) Outcome {
	if p1.Type == p2.Type {
		switch {
		case p1.Power > p2.Power:
			return OutcomePlayer1
		case p2.Power > p1.Power:
			return OutcomePlayer2
		}
		return OutcomeTie
	}
	if p1.Type.Beats() == p2.Type {
		return OutcomePlayer1
	}
	return OutcomePlayer2
}
