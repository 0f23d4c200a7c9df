package models

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus is the lifecycle status of a game. Transitions follow the
// closed graph in allowedTransitions; anything else is rejected.
type GameStatus string

const (
	StatusPending       GameStatus = "pending"        // invitation sent, not yet answered
	StatusDeckSelection GameStatus = "deck_selection" // accepted, waiting on both decks
	StatusActive        GameStatus = "active"         // decks in, turns cycling
	StatusCompleted     GameStatus = "completed"      // finished with a decided outcome (winner or tie)
	StatusAbandoned     GameStatus = "abandoned"      // ended early, no winner
	StatusIgnored       GameStatus = "ignored"        // invitation declined, never played
)

// allowedTransitions is the full status graph. A status missing from the map
// is terminal.
var allowedTransitions = map[GameStatus][]GameStatus{
	StatusPending:       {StatusDeckSelection, StatusIgnored, StatusAbandoned},
	StatusDeckSelection: {StatusActive, StatusAbandoned},
	StatusActive:        {StatusCompleted, StatusAbandoned},
}

// Terminal reports whether no further transition exists from s.
func (s GameStatus) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

// CanTransition reports whether s → to is in the status graph.
func (s GameStatus) CanTransition(to GameStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TurnStage is a player's position within the current turn. The stage enum
// replaces a has_drawn/has_played flag pair so that "played without drawing"
// is unrepresentable.
type TurnStage string

const (
	StageNotDrawn TurnStage = "not_drawn"
	StageDrawn    TurnStage = "drawn"
	StagePlayed   TurnStage = "played"
)

// HasDrawn reports whether the player has drawn this turn.
func (s TurnStage) HasDrawn() bool { return s == StageDrawn || s == StagePlayed }

// HasPlayed reports whether the player has played this turn.
func (s TurnStage) HasPlayed() bool { return s == StagePlayed }

// Decision is a player's recorded answer to the tiebreaker offer.
// Empty means not yet decided.
type Decision string

const (
	DecisionNone Decision = ""
	DecisionYes  Decision = "yes"
	DecisionNo   Decision = "no"
)

// Player side indices into Game.Players.
const (
	SidePlayer1 = 0 // game creator
	SidePlayer2 = 1 // invited opponent
)

// PlayerState is one participant's half of a game.
type PlayerState struct {
	Name         string    `json:"name"`
	Score        int       `json:"score"`
	Deck         []Card    `json:"deck"`
	Hand         []Card    `json:"hand"`
	Stage        TurnStage `json:"stage"`
	PlayedCard   *Card     `json:"played_card,omitempty"`
	DeckSelected bool      `json:"deck_selected"`

	// Tiebreaker sub-state, only meaningful while the game is resolving a
	// deck-exhaustion tie.
	TiebreakerDecision Decision `json:"tiebreaker_decision,omitempty"`
	TiebreakerCard     *Card    `json:"tiebreaker_card,omitempty"`
	TiebreakerPlayed   bool     `json:"tiebreaker_played"`
}

// Game is the aggregate root for one match. It is only ever mutated through
// the store's atomic read-modify-write, one request at a time per game id.
type Game struct {
	ID      uuid.UUID      `json:"id"`
	Status  GameStatus     `json:"status"`
	Turn    int            `json:"turn"`
	Players [2]PlayerState `json:"players"`

	// Winner is the winning player's name; empty for a tie or while the game
	// is still in progress. Only meaningful once Status is terminal.
	Winner string `json:"winner,omitempty"`

	// AwaitingTiebreaker halts automatic progression after deck exhaustion
	// with equal scores, until both decisions are recorded.
	AwaitingTiebreaker bool `json:"awaiting_tiebreaker"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGame creates a pending game: player1 invites player2.
func NewGame(player1, player2 string) *Game {
	now := time.Now().UTC()
	g := &Game{
		ID:        uuid.New(),
		Status:    StatusPending,
		Turn:      1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	g.Players[SidePlayer1] = PlayerState{Name: player1, Stage: StageNotDrawn}
	g.Players[SidePlayer2] = PlayerState{Name: player2, Stage: StageNotDrawn}
	return g
}

// SideOf returns the Players index for name, or ok=false for a non-participant.
func (g *Game) SideOf(name string) (side int, ok bool) {
	switch name {
	case g.Players[SidePlayer1].Name:
		return SidePlayer1, true
	case g.Players[SidePlayer2].Name:
		return SidePlayer2, true
	}
	return 0, false
}

// Opponent returns the other side's index.
func Opponent(side int) int { return 1 - side }

// Clone returns a deep copy of g. Stores mutate a clone so that a rejected
// action never leaves a partially modified record behind.
func (g *Game) Clone() *Game {
	cp := *g
	for i := range cp.Players {
		p := &cp.Players[i]
		p.Deck = append([]Card(nil), g.Players[i].Deck...)
		p.Hand = append([]Card(nil), g.Players[i].Hand...)
		if g.Players[i].PlayedCard != nil {
			c := *g.Players[i].PlayedCard
			p.PlayedCard = &c
		}
		if g.Players[i].TiebreakerCard != nil {
			c := *g.Players[i].TiebreakerCard
			p.TiebreakerCard = &c
		}
	}
	return &cp
}
