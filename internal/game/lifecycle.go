package game

import (
	"math/rand/v2"

	"github.com/battlecards/service/internal/models"
)

// transition moves the game along the status graph, rejecting any edge the
// table does not allow.
func transition(g *models.Game, to models.GameStatus) error {
	if !g.Status.CanTransition(to) {
		return errf(KindInvalidTransition, "game %s cannot go from %s to %s", g.ID, g.Status, to)
	}
	g.Status = to
	return nil
}

// Accept records the invited player accepting the invitation, moving the
// game into deck selection. Only the invited player may accept.
func Accept(g *models.Game, caller string) error {
	side, err := actingSide(g, caller)
	if err != nil {
		return err
	}
	if side != models.SidePlayer2 {
		return errf(KindForbidden, "only the invited player may answer the invitation")
	}
	if g.Status != models.StatusPending {
		if g.Status.Terminal() {
			return errf(KindGameAlreadyEnded, "game %s has ended (%s)", g.ID, g.Status)
		}
		return errf(KindInvalidTransition, "game %s invitation already answered (%s)", g.ID, g.Status)
	}
	return transition(g, models.StatusDeckSelection)
}

// Decline records the invited player declining the invitation. The game
// ends in ignored and never reaches deck selection.
func Decline(g *models.Game, caller string) error {
	side, err := actingSide(g, caller)
	if err != nil {
		return err
	}
	if side != models.SidePlayer2 {
		return errf(KindForbidden, "only the invited player may answer the invitation")
	}
	if g.Status != models.StatusPending {
		if g.Status.Terminal() {
			return errf(KindGameAlreadyEnded, "game %s has ended (%s)", g.ID, g.Status)
		}
		return errf(KindInvalidTransition, "game %s invitation already answered (%s)", g.ID, g.Status)
	}
	return transition(g, models.StatusIgnored)
}

// SelectDeck builds the caller's deck from per-type counts summing to the
// configured deck size. Powers are assigned by the card source; the assembled
// deck is shuffled. The game activates the moment both decks are in.
func SelectDeck(g *models.Game, caller string, counts map[models.CardType]int, src CardSource, rules Rules) error {
	side, err := actingSide(g, caller)
	if err != nil {
		return err
	}
	if g.Status != models.StatusDeckSelection {
		if g.Status.Terminal() {
			return errf(KindGameAlreadyEnded, "game %s has ended (%s)", g.ID, g.Status)
		}
		return errf(KindInvalidState, "game %s is not in deck selection (%s)", g.ID, g.Status)
	}

	p := &g.Players[side]
	if p.DeckSelected {
		return errf(KindInvalidState, "%s has already selected a deck", caller)
	}

	total := 0
	for t, n := range counts {
		if !t.Valid() {
			return errf(KindInvalidDeck, "unknown card type %q", t)
		}
		if n < 0 {
			return errf(KindInvalidDeck, "negative count for %s", t)
		}
		total += n
	}
	if total != rules.DeckSize {
		return errf(KindInvalidDeck, "deck must contain exactly %d cards, got %d", rules.DeckSize, total)
	}

	deck := make([]models.Card, 0, rules.DeckSize)
	for _, t := range models.CardTypes {
		if n := counts[t]; n > 0 {
			deck = append(deck, src.DrawType(t, n)...)
		}
	}
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	p.Deck = deck
	p.DeckSelected = true

	if g.Players[models.SidePlayer1].DeckSelected && g.Players[models.SidePlayer2].DeckSelected {
		return transition(g, models.StatusActive)
	}
	return nil
}

// End forces the game into abandoned, regardless of progress. Terminal games
// are already settled and reject the action.
func End(g *models.Game, caller string) error {
	if _, err := actingSide(g, caller); err != nil {
		return err
	}
	if g.Status.Terminal() {
		return errf(KindGameAlreadyEnded, "game %s has ended (%s)", g.ID, g.Status)
	}
	return transition(g, models.StatusAbandoned)
}

// checkExhaustion runs after every round resolution. Both decks empty with
// differing scores completes the game; equal scores open the tiebreaker
// offer and halt automatic progression.
func checkExhaustion(g *models.Game, round *RoundResult) {
	p1 := &g.Players[models.SidePlayer1]
	p2 := &g.Players[models.SidePlayer2]
	if len(p1.Deck) > 0 || len(p2.Deck) > 0 {
		return
	}

	if p1.Score != p2.Score {
		winner := p1.Name
		if p2.Score > p1.Score {
			winner = p2.Name
		}
		completeGame(g, winner)
		round.GameEnded = true
		return
	}

	g.AwaitingTiebreaker = true
	round.Tiebreaker = true
}

// completeGame transitions to completed. winner is empty for a tie.
func completeGame(g *models.Game, winner string) {
	// The only caller paths are from active, so the transition cannot fail.
	_ = transition(g, models.StatusCompleted)
	g.Winner = winner
	g.AwaitingTiebreaker = false
}

// RecordTiebreakerDecision stores a player's yes/no answer to the tiebreaker
// offer. A no from either player settles the game immediately as a tie
// (completed, no winner). Once both answer yes, each player's reserved card
// is drawn — the top remaining deck card if any, otherwise a random catalog
// card — and the sudden-death round begins.
func RecordTiebreakerDecision(g *models.Game, caller string, decision models.Decision, src CardSource) error {
	side, err := actingSide(g, caller)
	if err != nil {
		return err
	}
	if g.Status.Terminal() {
		return errf(KindGameAlreadyEnded, "game %s has ended (%s)", g.ID, g.Status)
	}
	if !g.AwaitingTiebreaker {
		return errf(KindInvalidState, "game %s is not awaiting a tiebreaker decision", g.ID)
	}
	if decision != models.DecisionYes && decision != models.DecisionNo {
		return errf(KindInvalidState, "tiebreaker decision must be yes or no")
	}

	p := &g.Players[side]
	if p.TiebreakerDecision != models.DecisionNone {
		return errf(KindInvalidState, "%s has already decided", caller)
	}
	p.TiebreakerDecision = decision

	if decision == models.DecisionNo {
		completeGame(g, "") // both-decline and single-decline end as a tie
		return nil
	}

	opp := &g.Players[models.Opponent(side)]
	if opp.TiebreakerDecision == models.DecisionYes {
		setupTiebreaker(g, src)
	}
	return nil
}

// setupTiebreaker reserves one card per player for the sudden-death round.
func setupTiebreaker(g *models.Game, src CardSource) {
	for i := range g.Players {
		p := &g.Players[i]
		var card models.Card
		if len(p.Deck) > 0 {
			card = p.Deck[0]
			p.Deck = p.Deck[1:]
		} else {
			card = src.DrawRandom(1)[0]
		}
		p.TiebreakerCard = &card
		p.TiebreakerPlayed = false
	}
	g.AwaitingTiebreaker = false
}

// PlayTiebreaker commits the caller's reserved card. When both are in, the
// sudden-death round resolves: a winner takes the card's power and the game
// completes; a second tie completes the game with no winner.
func PlayTiebreaker(g *models.Game, caller string) (*PlayResult, error) {
	side, err := actingSide(g, caller)
	if err != nil {
		return nil, err
	}
	if g.Status.Terminal() {
		return nil, errf(KindGameAlreadyEnded, "game %s has ended (%s)", g.ID, g.Status)
	}
	if g.AwaitingTiebreaker {
		return nil, errf(KindInvalidState, "tiebreaker decisions are still pending")
	}

	p := &g.Players[side]
	if p.TiebreakerCard == nil {
		return nil, errf(KindInvalidState, "game %s has no tiebreaker in progress", g.ID)
	}
	if p.TiebreakerPlayed {
		return nil, errf(KindAlreadyPlayed, "%s has already played the tiebreaker card", caller)
	}
	p.TiebreakerPlayed = true

	res := &PlayResult{PlayedCard: *p.TiebreakerCard}

	opp := &g.Players[models.Opponent(side)]
	if !opp.TiebreakerPlayed {
		return res, nil
	}

	p1 := &g.Players[models.SidePlayer1]
	p2 := &g.Players[models.SidePlayer2]
	round := &RoundResult{
		Turn:        g.Turn,
		Player1Card: *p1.TiebreakerCard,
		Player2Card: *p2.TiebreakerCard,
		GameEnded:   true,
	}

	outcome := Resolve(*p1.TiebreakerCard, *p2.TiebreakerCard)
	round.Outcome = outcome.String()
	switch outcome {
	case OutcomePlayer1:
		p1.Score += p1.TiebreakerCard.Power
		round.Winner = p1.Name
		round.Points = round.Player1Card.Power
	case OutcomePlayer2:
		p2.Score += p2.TiebreakerCard.Power
		round.Winner = p2.Name
		round.Points = round.Player2Card.Power
	}

	p1.TiebreakerCard = nil
	p2.TiebreakerCard = nil
	g.Turn++
	completeGame(g, round.Winner)

	res.RoundResolved = true
	res.Round = round
	return res, nil
}
