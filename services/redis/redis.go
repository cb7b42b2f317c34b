package redis

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		Client: client,
		Ctx:    context.Background(),
	}
}

// BestTime is one leaderboard entry for a given board and mode label.
type BestTime struct {
	Username string `json:"username"`
	Timer    int64  `json:"timer"` // elapsed millis
}

// SaveBestTime records a winning time in the per-board leaderboard.
// The sorted set only keeps a player's personal best (lower is better).
// Key format: "besttimes:{gameName}:{modeLabel}"
func (rc *RedisClient) SaveBestTime(gameName string, modeLabel string, username string, timer int64) error {
	key := formatBestTimesKey(gameName, modeLabel)
	err := rc.Client.ZAddLT(rc.Ctx, key, redis.Z{
		Score:  float64(timer),
		Member: username,
	}).Err()
	if err != nil {
		return fmt.Errorf("error saving best time for %s: %v", gameName, err)
	}
	return nil
}

// GetBestTimes returns the top count entries for a board, fastest first.
func (rc *RedisClient) GetBestTimes(gameName string, modeLabel string, count int64) ([]BestTime, error) {
	key := formatBestTimesKey(gameName, modeLabel)
	entries, err := rc.Client.ZRangeWithScores(rc.Ctx, key, 0, count-1).Result()
	if err != nil {
		return nil, fmt.Errorf("error fetching best times for %s: %v", gameName, err)
	}
	bestTimes := make([]BestTime, 0, len(entries))
	for _, entry := range entries {
		username, ok := entry.Member.(string)
		if !ok {
			continue
		}
		bestTimes = append(bestTimes, BestTime{Username: username, Timer: int64(entry.Score)})
	}
	return bestTimes, nil
}

// DeleteBestTimes removes the leaderboards of a board, typically when the
// board itself is deleted.
func (rc *RedisClient) DeleteBestTimes(gameName string, modeLabels ...string) error {
	for _, label := range modeLabels {
		if err := rc.Client.Del(rc.Ctx, formatBestTimesKey(gameName, label)).Err(); err != nil {
			return fmt.Errorf("failed to cleanup best times for %s: %v", gameName, err)
		}
	}
	return nil
}

func formatBestTimesKey(gameName string, modeLabel string) string {
	return fmt.Sprintf("besttimes:%s:%s", gameName, modeLabel)
}
