package game

import "github.com/battlecards/service/internal/models"

// RoundResult describes one fully resolved round (including the tiebreaker
// sudden-death round).
type RoundResult struct {
	Turn        int          `json:"turn"` // the turn number that just resolved
	Outcome     string       `json:"outcome"`
	Winner      string       `json:"winner,omitempty"` // empty on a tie
	Player1Card models.Card  `json:"player1_card"`
	Player2Card models.Card  `json:"player2_card"`
	Points      int          `json:"points"` // power added to the winner's score, 0 on a tie
	GameEnded   bool         `json:"game_ended"`
	Tiebreaker  bool         `json:"tiebreaker_offered"` // decks exhausted with equal scores
}

// PlayResult is returned from a successful Play. Round is non-nil only when
// this play was the second of the turn and triggered auto-resolution.
type PlayResult struct {
	PlayedCard    models.Card  `json:"played_card"`
	RoundResolved bool         `json:"round_resolved"`
	Round         *RoundResult `json:"round_result,omitempty"`
}

// actingSide resolves caller to a side index, rejecting non-participants.
func actingSide(g *models.Game, caller string) (int, error) {
	side, ok := g.SideOf(caller)
	if !ok {
		return 0, errf(KindForbidden, "%s is not a player in game %s", caller, g.ID)
	}
	return side, nil
}

// requireActive rejects turn actions in any status other than active, with
// the most specific kind available for the actual status.
func requireActive(g *models.Game) error {
	switch g.Status {
	case models.StatusActive:
		return nil
	case models.StatusPending:
		return errf(KindGameNotActive, "game %s has a pending invitation", g.ID)
	case models.StatusDeckSelection:
		return errf(KindMustSelectDeckFirst, "game %s is still in deck selection", g.ID)
	}
	return errf(KindGameAlreadyEnded, "game %s has ended (%s)", g.ID, g.Status)
}

// inTiebreaker reports whether the game is inside the tiebreaker
// sub-protocol: either waiting on decisions or playing the sudden-death round.
func inTiebreaker(g *models.Game) bool {
	return g.AwaitingTiebreaker ||
		g.Players[models.SidePlayer1].TiebreakerCard != nil ||
		g.Players[models.SidePlayer2].TiebreakerCard != nil
}

// Draw moves up to rules.HandSize cards from the caller's deck to their hand.
// A short deck yields a smaller final hand (1 or 2 cards); an empty deck is
// rejected with DeckEmpty, which signals the exhaustion path instead of a
// normal turn.
func Draw(g *models.Game, caller string, rules Rules) ([]models.Card, error) {
	side, err := actingSide(g, caller)
	if err != nil {
		return nil, err
	}
	if err := requireActive(g); err != nil {
		return nil, err
	}
	if inTiebreaker(g) {
		return nil, errf(KindInvalidState, "game %s is resolving a tiebreaker", g.ID)
	}

	p := &g.Players[side]
	if p.Stage.HasDrawn() {
		return nil, errf(KindAlreadyDrawn, "%s has already drawn this turn", caller)
	}
	if len(p.Deck) == 0 {
		return nil, errf(KindDeckEmpty, "%s's deck is empty", caller)
	}

	n := rules.HandSize
	if n > len(p.Deck) {
		n = len(p.Deck)
	}
	p.Hand = append([]models.Card(nil), p.Deck[:n]...)
	p.Deck = p.Deck[n:]
	p.Stage = models.StageDrawn

	return append([]models.Card(nil), p.Hand...), nil
}

// Play moves the card at idx from the caller's hand to their played slot and
// discards the rest of the hand permanently. When both players have played,
// the round resolves in the same call.
func Play(g *models.Game, caller string, idx int, rules Rules) (*PlayResult, error) {
	side, err := actingSide(g, caller)
	if err != nil {
		return nil, err
	}
	if err := requireActive(g); err != nil {
		return nil, err
	}
	if inTiebreaker(g) {
		return nil, errf(KindInvalidState, "game %s is resolving a tiebreaker", g.ID)
	}

	p := &g.Players[side]
	switch p.Stage {
	case models.StageNotDrawn:
		return nil, errf(KindMustDrawFirst, "%s must draw before playing", caller)
	case models.StagePlayed:
		return nil, errf(KindAlreadyPlayed, "%s has already played this turn", caller)
	}
	if idx < 0 || idx >= len(p.Hand) {
		return nil, errf(KindInvalidCardIndex, "hand index %d out of range [0, %d)", idx, len(p.Hand))
	}

	card := p.Hand[idx]
	p.PlayedCard = &card
	p.Hand = nil // unplayed cards are discarded, never returned to the deck
	p.Stage = models.StagePlayed

	res := &PlayResult{PlayedCard: card}
	if round := maybeResolveRound(g); round != nil {
		res.RoundResolved = true
		res.Round = round
	}
	return res, nil
}

// maybeResolveRound resolves the round if and only if both players have
// played. It is the single synchronization point of a turn: the caller must
// run it inside the same atomic unit as the Play that triggered it, so two
// racing plays can never both observe the played×played state.
func maybeResolveRound(g *models.Game) *RoundResult {
	p1 := &g.Players[models.SidePlayer1]
	p2 := &g.Players[models.SidePlayer2]
	if !p1.Stage.HasPlayed() || !p2.Stage.HasPlayed() {
		return nil
	}

	round := &RoundResult{
		Turn:        g.Turn,
		Player1Card: *p1.PlayedCard,
		Player2Card: *p2.PlayedCard,
	}

	outcome := Resolve(*p1.PlayedCard, *p2.PlayedCard)
	round.Outcome = outcome.String()
	switch outcome {
	case OutcomePlayer1:
		p1.Score += p1.PlayedCard.Power
		round.Winner = p1.Name
		round.Points = round.Player1Card.Power
	case OutcomePlayer2:
		p2.Score += p2.PlayedCard.Power
		round.Winner = p2.Name
		round.Points = round.Player2Card.Power
	}

	// Reset per-turn state and advance the turn counter.
	for i := range g.Players {
		g.Players[i].Stage = models.StageNotDrawn
		g.Players[i].Hand = nil
		g.Players[i].PlayedCard = nil
	}
	g.Turn++

	checkExhaustion(g, round)
	return round
}
