package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/battlecards/service/internal/models"
)

// PlayerView is one side of a game as seen by a specific viewer. Hand, deck
// contents, in-flight played cards, and reserved tiebreaker cards are only
// revealed for the viewer's own side.
type PlayerView struct {
	Name         string           `json:"name"`
	Score        int              `json:"score"`
	DeckSize     int              `json:"deck_size"`
	HandSize     int              `json:"hand_size"`
	Hand         []models.Card    `json:"hand,omitempty"` // self only
	Stage        models.TurnStage `json:"stage"`
	HasDrawn     bool             `json:"has_drawn"`
	HasPlayed    bool             `json:"has_played"`
	PlayedCard   *models.Card     `json:"played_card,omitempty"` // self only
	DeckSelected bool             `json:"deck_selected"`

	TiebreakerDecided bool            `json:"tiebreaker_decided,omitempty"`
	TiebreakerPlayed  bool            `json:"tiebreaker_played,omitempty"`
	TiebreakerCard    *models.Card    `json:"tiebreaker_card,omitempty"` // self only
	TiebreakerAnswer  models.Decision `json:"tiebreaker_answer,omitempty"` // self only
}

// View is the full read-only game state tailored to one viewer.
type View struct {
	ID                 uuid.UUID         `json:"id"`
	Status             models.GameStatus `json:"status"`
	Turn               int               `json:"turn"`
	Winner             string            `json:"winner,omitempty"`
	AwaitingTiebreaker bool              `json:"awaiting_tiebreaker"`
	Player1            PlayerView        `json:"player1"`
	Player2            PlayerView        `json:"player2"`
	You                string            `json:"you"` // viewer's name
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ViewFor builds the obfuscated state snapshot for viewer. It has no side
// effects on the game.
func ViewFor(g *models.Game, viewer string) View {
	v := View{
		ID:                 g.ID,
		Status:             g.Status,
		Turn:               g.Turn,
		Winner:             g.Winner,
		AwaitingTiebreaker: g.AwaitingTiebreaker,
		You:                viewer,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
	v.Player1 = playerViewFor(&g.Players[models.SidePlayer1], viewer)
	v.Player2 = playerViewFor(&g.Players[models.SidePlayer2], viewer)
	return v
}

func playerViewFor(p *models.PlayerState, viewer string) PlayerView {
	pv := PlayerView{
		Name:              p.Name,
		Score:             p.Score,
		DeckSize:          len(p.Deck),
		HandSize:          len(p.Hand),
		Stage:             p.Stage,
		HasDrawn:          p.Stage.HasDrawn(),
		HasPlayed:         p.Stage.HasPlayed(),
		DeckSelected:      p.DeckSelected,
		TiebreakerDecided: p.TiebreakerDecision != models.DecisionNone,
		TiebreakerPlayed:  p.TiebreakerPlayed,
	}
	if p.Name == viewer {
		pv.Hand = append([]models.Card(nil), p.Hand...)
		pv.PlayedCard = p.PlayedCard
		pv.TiebreakerCard = p.TiebreakerCard
		pv.TiebreakerAnswer = p.TiebreakerDecision
	}
	return pv
}
