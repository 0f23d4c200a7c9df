package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/battlecards/service/internal/cache"
)

// EventType labels a game event on the websocket stream.
type EventType string

const (
	EventInvitationAccepted EventType = "invitation_accepted"
	EventInvitationDeclined EventType = "invitation_declined"
	EventDeckSelected       EventType = "deck_selected"
	EventPlayerDrew         EventType = "player_drew"
	EventPlayerPlayed       EventType = "player_played"
	EventRoundResolved      EventType = "round_resolved"
	EventTiebreakerOffered  EventType = "tiebreaker_offered"
	EventTiebreakerDecision EventType = "tiebreaker_decision"
	EventGameEnded          EventType = "game_ended"
)

// Event is one game state change, broadcast to every subscriber of the game.
type Event struct {
	Type    EventType              `json:"type"`
	GameID  uuid.UUID              `json:"game_id"`
	Actor   string                 `json:"actor,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Hub fans game events out to websocket subscribers, keyed by game id.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan Event]struct{}
	seq  map[uuid.UUID]int
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[uuid.UUID]map[chan Event]struct{}),
		seq:  make(map[uuid.UUID]int),
	}
}

// Subscribe registers a listener for one game. The returned cancel function
// must be called when the listener goes away.
func (h *Hub) Subscribe(gameID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[chan Event]struct{})
	}
	h.subs[gameID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[gameID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, gameID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Forget drops the event sequence counter for a game that reached a
// terminal status. Subscriptions clean themselves up on unsubscribe; the
// counter would otherwise live for the rest of the process.
func (h *Hub) Forget(gameID uuid.UUID) {
	h.mu.Lock()
	delete(h.seq, gameID)
	h.mu.Unlock()
}

// Publish delivers ev to every subscriber of its game. Slow subscribers are
// skipped rather than blocking the action that produced the event.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	for ch := range h.subs[ev.GameID] {
		select {
		case ch <- ev:
		default:
		}
	}
	h.mu.Unlock()
}

// publishEvent fans an event out to websocket subscribers and appends it to
// the Redis action history stream, best-effort.
func (s *Server) publishEvent(ev Event) {
	s.hub.Publish(ev)

	s.hub.mu.Lock()
	s.hub.seq[ev.GameID]++
	idx := s.hub.seq[ev.GameID]
	s.hub.mu.Unlock()

	rec := cache.GameActionRecord{
		GameID:        ev.GameID,
		ActionIndex:   idx,
		Actor:         ev.Actor,
		ActionType:    string(ev.Type),
		ActionPayload: ev.Payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			s.log.WithError(err).WithField("game_id", ev.GameID).Warn("failed publishing action record")
		}
	}()
}
