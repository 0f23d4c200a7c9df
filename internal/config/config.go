// Package config loads service configuration from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the server reads at startup.
type Config struct {
	Addr        string        // listen address
	DatabaseURL string        // postgres DSN; empty selects the in-memory store
	RedisAddr   string        // redis host:port; empty disables caching
	JWTSecret   string        // HS256 signing secret
	TokenTTL    time.Duration // session token lifetime
	DeckSize    int           // cards per player deck
	HandSize    int           // cards drawn per turn
	CatalogPath string        // YAML card pool; empty uses the built-in pool
	LogLevel    string        // logrus level name
}

// Load reads the environment, after merging a .env file if one exists.
func Load() Config {
	_ = godotenv.Load() // missing .env is fine

	return Config{
		Addr:        getString("BATTLECARDS_ADDR", ":8080"),
		DatabaseURL: getString("DATABASE_URL", ""),
		RedisAddr:   getString("REDIS_ADDR", ""),
		JWTSecret:   getString("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:    getDuration("TOKEN_TTL", 24*time.Hour),
		DeckSize:    getInt("DECK_SIZE", 9),
		HandSize:    getInt("HAND_SIZE", 3),
		CatalogPath: getString("CATALOG_PATH", ""),
		LogLevel:    getString("LOG_LEVEL", "info"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
