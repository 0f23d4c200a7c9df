package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/battlecards/service/internal/game"
	"github.com/battlecards/service/internal/store"
)

// errorBody is the wire shape of every error response: a stable kind plus a
// human-readable message.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps rule errors to their HTTP status with the kind intact.
// Anything without a rule kind is an infrastructure failure: logged, hidden
// behind a generic 500, and retryable from the client's perspective.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Kind: string(game.KindNotFound), Message: "game not found"})
		return
	}
	if kind, ok := game.KindOf(err); ok {
		writeJSON(w, statusForKind(kind), errorBody{Kind: string(kind), Message: err.Error()})
		return
	}
	s.log.WithError(err).Error("internal error")
	writeJSON(w, http.StatusInternalServerError, errorBody{Kind: "internal", Message: "internal error"})
}

func statusForKind(kind game.Kind) int {
	switch kind {
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindForbidden:
		return http.StatusForbidden
	case game.KindInvalidCardIndex, game.KindInvalidDeck:
		return http.StatusBadRequest
	default:
		// Sequencing and lifecycle violations: the request conflicts with
		// the game's current state.
		return http.StatusConflict
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
