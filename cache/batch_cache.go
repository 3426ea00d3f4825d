package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/redis/go-redis/v9"
	"github.com/vishal-24-1/Inzighted-G-sub000/prompts"
	"go.uber.org/zap"
)

// RedisBatchCache keeps generated question batches in redis so reopening a
// session on the same material skips generation. Strictly best effort:
// every redis failure is logged and treated as a miss.
type RedisBatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBatchCache(client *redis.Client, ttl time.Duration) *RedisBatchCache {
	return &RedisBatchCache{client: client, ttl: ttl}
}

func ProvideRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func (c *RedisBatchCache) Get(ctx context.Context, key string) ([]prompts.QuestionDraft, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Error("batch cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var drafts []prompts.QuestionDraft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		logger.Error("batch cache entry is corrupt, dropping it", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return nil, false
	}
	return drafts, true
}

func (c *RedisBatchCache) Set(ctx context.Context, key string, drafts []prompts.QuestionDraft) {
	raw, err := json.Marshal(drafts)
	if err != nil {
		logger.Error("batch cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Error("batch cache write failed", zap.String("key", key), zap.Error(err))
	}
}
