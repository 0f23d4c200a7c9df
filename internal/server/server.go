// Package server exposes the Battlecards services over HTTP: auth, card
// catalog, gameplay, and leaderboard, plus a per-game websocket event stream.
package server

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/battlecards/service/internal/auth"
	"github.com/battlecards/service/internal/catalog"
	"github.com/battlecards/service/internal/database"
	"github.com/battlecards/service/internal/game"
	"github.com/battlecards/service/internal/models"
	"github.com/battlecards/service/internal/store"
)

// UserStore is the account persistence the auth handlers need. The postgres
// implementation lives in internal/database; MemoryUsers backs dev and tests.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateDisplayName(ctx context.Context, username, displayName string) error
}

// LeaderboardFunc computes the standings. Nil when no database is configured.
type LeaderboardFunc func(ctx context.Context, limit int) ([]database.LeaderboardEntry, error)

// Server wires every service behind one mux.
type Server struct {
	games       store.Store
	users       UserStore
	catalog     *catalog.Catalog
	tokens      *auth.Service
	rules       game.Rules
	leaderboard LeaderboardFunc
	hub         *Hub
	log         *logrus.Logger
	mux         *http.ServeMux
}

// NewServer assembles the HTTP surface. leaderboard may be nil; the endpoint
// then reports the service as unavailable.
func NewServer(games store.Store, users UserStore, cat *catalog.Catalog, tokens *auth.Service, rules game.Rules, leaderboard LeaderboardFunc, log *logrus.Logger) *Server {
	s := &Server{
		games:       games,
		users:       users,
		catalog:     cat,
		tokens:      tokens,
		rules:       rules,
		leaderboard: leaderboard,
		hub:         NewHub(),
		log:         log,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Auth service.
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.Handle("GET /api/auth/me", s.authed(s.handleGetProfile))
	s.mux.Handle("PUT /api/auth/me", s.authed(s.handleUpdateProfile))

	// Card catalog service.
	s.mux.HandleFunc("GET /api/cards", s.handleListCards)
	s.mux.HandleFunc("GET /api/cards/random", s.handleRandomCards)

	// Game service.
	s.mux.Handle("POST /api/games", s.authed(s.handleCreateGame))
	s.mux.Handle("GET /api/games", s.authed(s.handleListGames))
	s.mux.Handle("GET /api/games/{id}", s.authed(s.handleGetGame))
	s.mux.Handle("POST /api/games/{id}/accept", s.authed(s.handleAccept))
	s.mux.Handle("POST /api/games/{id}/decline", s.authed(s.handleDecline))
	s.mux.Handle("POST /api/games/{id}/deck", s.authed(s.handleSelectDeck))
	s.mux.Handle("POST /api/games/{id}/draw", s.authed(s.handleDraw))
	s.mux.Handle("POST /api/games/{id}/play", s.authed(s.handlePlay))
	s.mux.Handle("POST /api/games/{id}/tiebreaker/decision", s.authed(s.handleTiebreakerDecision))
	s.mux.Handle("POST /api/games/{id}/tiebreaker/play", s.authed(s.handleTiebreakerPlay))
	s.mux.Handle("POST /api/games/{id}/end", s.authed(s.handleEndGame))
	s.mux.Handle("GET /api/games/{id}/ws", s.authed(s.handleGameSocket))

	// Leaderboard service.
	s.mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)

	s.mux.HandleFunc("GET /api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// authed wraps a handler with the bearer-token middleware.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return s.tokens.Middleware(h)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
