package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	redisv9 "github.com/redis/go-redis/v9"
)

// LikedCache keeps each user's liked song ids in Redis. A short-lived dirty
// marker set on every like/unlike stops readers from repopulating the cache
// with a snapshot taken before the write committed.
type LikedCache struct {
	client         *redisv9.Client
	likedTTL       time.Duration
	dirtyMarkerTTL time.Duration
}

func NewLikedCache(client *redisv9.Client, likedTTL, dirtyMarkerTTL time.Duration) *LikedCache {
	if likedTTL <= 0 {
		likedTTL = 5 * time.Minute
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &LikedCache{
		client:         client,
		likedTTL:       likedTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *LikedCache) GetLiked(ctx context.Context, userID uint) ([]uint, bool, error) {
	raw, err := c.client.Get(ctx, likedKey(userID)).Bytes()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get liked songs failed: %w", err)
	}

	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached liked songs failed: %w", err)
	}
	return ids, true, nil
}

func (c *LikedCache) SetLiked(ctx context.Context, userID uint, ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal liked songs failed: %w", err)
	}
	if err := c.client.Set(ctx, likedKey(userID), payload, c.likedTTL).Err(); err != nil {
		return fmt.Errorf("redis set liked songs failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached set and marks it dirty in one round trip.
func (c *LikedCache) Invalidate(ctx context.Context, userID uint) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, likedKey(userID))
	pipe.Set(ctx, dirtyKey(userID), "1", c.dirtyMarkerTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate liked songs failed: %w", err)
	}
	return nil
}

func (c *LikedCache) IsDirty(ctx context.Context, userID uint) (bool, error) {
	exists, err := c.client.Exists(ctx, dirtyKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func likedKey(userID uint) string {
	return fmt.Sprintf("liked:songs:%d", userID)
}

func dirtyKey(userID uint) string {
	return fmt.Sprintf("liked:songs:dirty:%d", userID)
}
