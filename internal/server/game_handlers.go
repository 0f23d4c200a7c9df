package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/battlecards/service/internal/auth"
	"github.com/battlecards/service/internal/database"
	"github.com/battlecards/service/internal/game"
	"github.com/battlecards/service/internal/models"
)

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Kind: "bad_request", Message: msg})
}

func forbidden(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusForbidden, errorBody{Kind: string(game.KindForbidden), Message: msg})
}

// caller returns the authenticated username; the middleware guarantees it is
// present on every authed route.
func caller(r *http.Request) string {
	name, _ := auth.Username(r.Context())
	return name
}

func gameID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, "malformed game id")
		return uuid.Nil, false
	}
	return id, true
}

type createGameRequest struct {
	Opponent string `json:"opponent"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Opponent == "" {
		badRequest(w, "opponent is required")
		return
	}
	if req.Opponent == me {
		badRequest(w, "cannot invite yourself")
		return
	}
	if _, err := s.users.GetByUsername(r.Context(), req.Opponent); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			badRequest(w, "opponent does not exist")
			return
		}
		s.writeError(w, err)
		return
	}

	g := models.NewGame(me, req.Opponent)
	if err := s.games.Create(r.Context(), g); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.WithFields(map[string]interface{}{
		"game_id": g.ID, "player1": me, "player2": req.Opponent,
	}).Info("game created")
	writeJSON(w, http.StatusCreated, game.ViewFor(g, me))
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	gs, err := s.games.ListByPlayer(r.Context(), me)
	if err != nil {
		s.writeError(w, err)
		return
	}
	views := make([]game.View, len(gs))
	for i, g := range gs {
		views[i] = game.ViewFor(g, me)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	g, err := s.games.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, ok := g.SideOf(me); !ok {
		forbidden(w, "not a player in this game")
		return
	}
	writeJSON(w, http.StatusOK, game.ViewFor(g, me))
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	g, err := s.games.Update(r.Context(), id, func(g *models.Game) error {
		return game.Accept(g, me)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishEvent(Event{Type: EventInvitationAccepted, GameID: id, Actor: me})
	writeJSON(w, http.StatusOK, game.ViewFor(g, me))
}

func (s *Server) handleDecline(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	g, err := s.games.Update(r.Context(), id, func(g *models.Game) error {
		return game.Decline(g, me)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishEvent(Event{Type: EventInvitationDeclined, GameID: id, Actor: me})
	s.hub.Forget(id)
	writeJSON(w, http.StatusOK, game.ViewFor(g, me))
}

type selectDeckRequest struct {
	Counts map[models.CardType]int `json:"counts"`
}

func (s *Server) handleSelectDeck(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	var req selectDeckRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	g, err := s.games.Update(r.Context(), id, func(g *models.Game) error {
		return game.SelectDeck(g, me, req.Counts, s.catalog, s.rules)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishEvent(Event{
		Type: EventDeckSelected, GameID: id, Actor: me,
		Payload: map[string]interface{}{"status": g.Status},
	})
	writeJSON(w, http.StatusOK, game.ViewFor(g, me))
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	var hand []models.Card
	_, err := s.games.Update(r.Context(), id, func(g *models.Game) error {
		var err error
		hand, err = game.Draw(g, me, s.rules)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Cards stay private to the drawer; subscribers only learn the count.
	s.publishEvent(Event{
		Type: EventPlayerDrew, GameID: id, Actor: me,
		Payload: map[string]interface{}{"count": len(hand)},
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"hand": hand})
}

type playRequest struct {
	Index int `json:"index"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	var req playRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	var res *game.PlayResult
	g, err := s.games.Update(r.Context(), id, func(g *models.Game) error {
		var err error
		res, err = game.Play(g, me, req.Index, s.rules)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishRoundEvents(id, me, g, res)
	writeJSON(w, http.StatusOK, res)
}

type tiebreakerDecisionRequest struct {
	Decision models.Decision `json:"decision"`
}

func (s *Server) handleTiebreakerDecision(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	var req tiebreakerDecisionRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	g, err := s.games.Update(r.Context(), id, func(g *models.Game) error {
		return game.RecordTiebreakerDecision(g, me, req.Decision, s.catalog)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishEvent(Event{Type: EventTiebreakerDecision, GameID: id, Actor: me})
	if g.Status.Terminal() {
		s.publishEvent(Event{
			Type: EventGameEnded, GameID: id,
			Payload: map[string]interface{}{"status": g.Status, "winner": g.Winner},
		})
		s.hub.Forget(id)
	}
	writeJSON(w, http.StatusOK, game.ViewFor(g, me))
}

func (s *Server) handleTiebreakerPlay(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	var res *game.PlayResult
	g, err := s.games.Update(r.Context(), id, func(g *models.Game) error {
		var err error
		res, err = game.PlayTiebreaker(g, me)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.publishRoundEvents(id, me, g, res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	me := caller(r)
	id, ok := gameID(w, r)
	if !ok {
		return
	}
	g, err := s.games.Update(r.Context(), id, func(g *models.Game) error {
		return game.End(g, me)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.WithFields(map[string]interface{}{"game_id": id, "player": me}).Info("game abandoned")
	s.publishEvent(Event{
		Type: EventGameEnded, GameID: id, Actor: me,
		Payload: map[string]interface{}{"status": g.Status},
	})
	s.hub.Forget(id)
	writeJSON(w, http.StatusOK, game.ViewFor(g, me))
}

// publishRoundEvents emits the event fan-out for a play: the (hidden) play
// itself, round resolution, a tiebreaker offer, and game end as applicable.
func (s *Server) publishRoundEvents(id uuid.UUID, actor string, g *models.Game, res *game.PlayResult) {
	s.publishEvent(Event{Type: EventPlayerPlayed, GameID: id, Actor: actor})
	if !res.RoundResolved {
		return
	}
	round := res.Round
	s.publishEvent(Event{
		Type: EventRoundResolved, GameID: id,
		Payload: map[string]interface{}{
			"turn":         round.Turn,
			"outcome":      round.Outcome,
			"winner":       round.Winner,
			"player1_card": round.Player1Card,
			"player2_card": round.Player2Card,
			"points":       round.Points,
		},
	})
	if round.Tiebreaker {
		s.publishEvent(Event{Type: EventTiebreakerOffered, GameID: id})
	}
	if round.GameEnded {
		s.publishEvent(Event{
			Type: EventGameEnded, GameID: id,
			Payload: map[string]interface{}{"status": g.Status, "winner": g.Winner},
		})
		s.hub.Forget(id)
	}
}
