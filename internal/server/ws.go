package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// handleGameSocket streams game events to a participant over a websocket.
// The socket is read-only for the client; all actions go through the REST
// endpoints, and "waiting for opponent" stays a client concern.
func (s *Server) handleGameSocket(w http.ResponseWriter, r *http.Request) {
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

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// The connection is hijacked, so the request context no longer tracks
	// the client. CloseRead pumps incoming frames and cancels the context
	// the moment the client closes or drops.
	ctx := conn.CloseRead(r.Context())

	events, cancel := s.hub.Subscribe(id)
	defer cancel()

	s.log.WithFields(map[string]interface{}{"game_id": id, "player": me}).Debug("websocket subscribed")
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			writeCtx, cancelWrite := context.WithTimeout(ctx, 5*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, data)
			cancelWrite()
			if err != nil {
				return
			}
		}
	}
}
