package redis

import (
	"context"
	"encoding/json"
	"time"

	"gift-advisor/internal/domain/model"
	"gift-advisor/internal/infra/metrics"
)

// HistoryCache keeps a session's full message history as a JSON blob with a
// TTL. It is best-effort: callers treat every error as a miss and fall back
// to the store.
type HistoryCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewHistoryCache(client RedisClient, ttl time.Duration) *HistoryCache {
	return &HistoryCache{
		client: client,
		ttl:    ttl,
	}
}

func key(sessionID string) string { return "history:" + sessionID }

func (c *HistoryCache) Get(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	data, err := c.client.Get(ctx, key(sessionID))
	if err != nil {
		metrics.IncCacheMiss()
		return nil, err
	}

	var messages []model.ChatMessage
	if err := json.Unmarshal([]byte(data), &messages); err != nil {
		metrics.IncCacheMiss()
		return nil, err
	}
	metrics.IncCacheHit()
	return messages, nil
}

func (c *HistoryCache) Store(ctx context.Context, sessionID string, messages []model.ChatMessage) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(sessionID), data, c.ttl)
}

func (c *HistoryCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, key(sessionID))
}
