package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlecards/service/internal/game"
)

func (h *Hub) subscriberCount(id uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}

func TestGameSocketUnsubscribesOnClientClose(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")
	register(t, s, "bob")

	var created game.View
	w := do(t, s, http.MethodPost, "/api/games", alice, map[string]string{"opponent": "bob"}, &created)
	require.Equal(t, http.StatusCreated, w.Code)

	ts := httptest.NewServer(s)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + created.ID.String() + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": {"Bearer " + alice}},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.hub.subscriberCount(created.ID) == 1
	}, time.Second, 10*time.Millisecond)

	// Closing the client must release the subscription even though the game
	// produces no further events.
	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	assert.Eventually(t, func() bool {
		return s.hub.subscriberCount(created.ID) == 0
	}, time.Second, 10*time.Millisecond)
}
