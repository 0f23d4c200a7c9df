// Command battlecards runs the Battlecards API: auth, card catalog, game,
// and leaderboard services on one listener. With no DATABASE_URL it runs
// entirely in memory, which is enough for local play.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battlecards/service/internal/auth"
	"github.com/battlecards/service/internal/cache"
	"github.com/battlecards/service/internal/catalog"
	"github.com/battlecards/service/internal/config"
	"github.com/battlecards/service/internal/database"
	"github.com/battlecards/service/internal/game"
	"github.com/battlecards/service/internal/server"
	"github.com/battlecards/service/internal/store"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.WithError(err).Fatal("failed loading card catalog")
		}
		cat = loaded
	}

	var (
		games       store.Store
		users       server.UserStore
		leaderboard server.LeaderboardFunc
	)
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed connecting to postgres")
		}
		defer pool.Close()
		games = database.NewGameStore(pool)
		users = database.NewUserStore(pool)
		leaderboard = func(ctx context.Context, limit int) ([]database.LeaderboardEntry, error) {
			return database.Leaderboard(ctx, pool, limit)
		}
		log.Info("using postgres store")
	} else {
		games = store.NewMemoryStore()
		users = server.NewMemoryUsers()
		log.Warn("no DATABASE_URL set, using in-memory store")
	}

	if err := cache.Init(ctx, cfg.RedisAddr); err != nil {
		log.WithError(err).Warn("redis unavailable, continuing without cache")
	}

	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	rules := game.Rules{DeckSize: cfg.DeckSize, HandSize: cfg.HandSize}

	srv := server.NewServer(games, users, cat, tokens, rules, leaderboard, log)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", cfg.Addr).Info("battlecards listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server exited")
	}
}
