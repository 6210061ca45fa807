package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ScoreCache holds the pixel-perfect leaderboard as a Redis ZSET so the
// results screen ranks without rescanning submissions.
type ScoreCache interface {
	// UpdateBest keeps the player's highest score (GT semantics).
	UpdateBest(ctx context.Context, roomCode, playerID string, score int) error
	GetTop(ctx context.Context, roomCode string, limit int) ([]ScoreEntry, error)
	Delete(ctx context.Context, roomCode string) error
}

// ScoreEntry is a single leaderboard row
type ScoreEntry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type scoreCache struct {
	client *redis.Client
}

// NewScoreCache creates a new score cache
func NewScoreCache(client *redis.Client) ScoreCache {
	return &scoreCache{client: client}
}

func (c *scoreCache) key(roomCode string) string {
	return fmt.Sprintf("room:%s:scores", roomCode)
}

func (c *scoreCache) UpdateBest(ctx context.Context, roomCode, playerID string, score int) error {
	return c.client.ZAddGT(ctx, c.key(roomCode), redis.Z{
		Score:  float64(score),
		Member: playerID,
	}).Err()
}

func (c *scoreCache) GetTop(ctx context.Context, roomCode string, limit int) ([]ScoreEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(roomCode), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]ScoreEntry, len(results))
	for i, z := range results {
		entries[i] = ScoreEntry{
			PlayerID: z.Member.(string),
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *scoreCache) Delete(ctx context.Context, roomCode string) error {
	return c.client.Del(ctx, c.key(roomCode)).Err()
}
