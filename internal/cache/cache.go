// Package cache wraps the Redis client used for the game action history feed
// and the leaderboard cache. Everything here is best-effort: a missing or
// failing Redis never blocks or fails a game action.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the shared Redis client, nil when Redis is not configured.
var Rdb *redis.Client

// Init connects the shared client. An empty addr leaves Rdb nil and disables
// caching.
func Init(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	Rdb = client
	return nil
}

// GameActionRecord is one applied game action, published to the history
// stream for audit and replay consumers.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	Actor         string                 `json:"actor"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"payload,omitempty"`
	Timestamp     int64                  `json:"timestamp"`
}

const actionStream = "battlecards:game_actions"

// PublishGameAction appends rec to the action history stream.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	return Rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: actionStream,
		Values: map[string]interface{}{"record": data},
	}).Err()
}

const leaderboardKey = "battlecards:leaderboard"

// GetLeaderboard returns the cached leaderboard JSON, or ok=false on miss or
// when Redis is unavailable.
func GetLeaderboard(ctx context.Context) ([]byte, bool) {
	if Rdb == nil {
		return nil, false
	}
	data, err := Rdb.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetLeaderboard caches serialized standings for ttl.
func SetLeaderboard(ctx context.Context, data []byte, ttl time.Duration) {
	if Rdb == nil {
		return
	}
	Rdb.Set(ctx, leaderboardKey, data, ttl)
}
