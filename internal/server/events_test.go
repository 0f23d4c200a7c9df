package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecards/service/internal/game"
)

func (h *Hub) hasSequence(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.seq[id]
	return ok
}

func TestHubDropsSequenceCounterOnGameEnd(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	var created game.View
	w := do(t, s, http.MethodPost, "/api/games", alice, map[string]string{"opponent": "bob"}, &created)
	require.Equal(t, http.StatusCreated, w.Code)
	gamePath := fmt.Sprintf("/api/games/%s", created.ID)

	w = do(t, s, http.MethodPost, gamePath+"/end", bob, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, s.hub.hasSequence(created.ID))
}

func TestHubDropsSequenceCounterOnDecline(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	var created game.View
	w := do(t, s, http.MethodPost, "/api/games", alice, map[string]string{"opponent": "bob"}, &created)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, s, http.MethodPost, fmt.Sprintf("/api/games/%s/decline", created.ID), bob, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, s.hub.hasSequence(created.ID))
}
