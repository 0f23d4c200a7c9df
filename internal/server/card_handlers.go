package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/battlecards/service/internal/cache"
	"github.com/battlecards/service/internal/models"
)

const maxRandomDraw = 100

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	if t := r.URL.Query().Get("type"); t != "" {
		cardType := models.CardType(t)
		if !cardType.Valid() {
			badRequest(w, "unknown card type")
			return
		}
		writeJSON(w, http.StatusOK, s.catalog.ByType(cardType))
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.All())
}

func (s *Server) handleRandomCards(w http.ResponseWriter, r *http.Request) {
	n := 1
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxRandomDraw {
			badRequest(w, "count must be between 1 and 100")
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, s.catalog.DrawRandom(n))
}

const (
	leaderboardLimit    = 50
	leaderboardCacheTTL = 30 * time.Second
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.leaderboard == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Kind: "unavailable", Message: "leaderboard requires a database"})
		return
	}

	if data, ok := cache.GetLeaderboard(r.Context()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	entries, err := s.leaderboard(r.Context(), leaderboardLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if data, err := json.Marshal(entries); err == nil {
		cache.SetLeaderboard(r.Context(), data, leaderboardCacheTTL)
	}
	writeJSON(w, http.StatusOK, entries)
}
