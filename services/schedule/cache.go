// File: services/schedule/cache.go
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"furever/models"
	"furever/utils"
)

// DurableCache is the provider-scoped snapshot store the availability
// store mirrors into. It keeps the calendar usable across restarts and
// when the primary store is unreachable.
type DurableCache interface {
	Load(ctx context.Context, providerID string) ([]models.DayAvailability, error)
	Store(ctx context.Context, providerID string, days []models.DayAvailability) error
	Clear(ctx context.Context, providerID string) error
}

type redisDurableCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDurableCache wraps a Redis client as a DurableCache. Each
// provider's calendar is one JSON snapshot under a prefixed key.
func NewRedisDurableCache(client *redis.Client, ttl time.Duration) DurableCache {
	if ttl <= 0 {
		ttl = utils.AvailabilityCacheTTL
	}
	return &redisDurableCache{client: client, ttl: ttl}
}

func cacheKey(providerID string) string {
	return utils.AvailabilityCachePrefix + providerID
}

func (c *redisDurableCache) Load(ctx context.Context, providerID string) ([]models.DayAvailability, error) {
	raw, err := c.client.Get(ctx, cacheKey(providerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load availability snapshot: %w", err)
	}
	var days []models.DayAvailability
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("corrupt availability snapshot: %w", err)
	}
	return days, nil
}

func (c *redisDurableCache) Store(ctx context.Context, providerID string, days []models.DayAvailability) error {
	raw, err := json.Marshal(days)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, cacheKey(providerID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store availability snapshot: %w", err)
	}
	return nil
}

func (c *redisDurableCache) Clear(ctx context.Context, providerID string) error {
	return c.client.Del(ctx, cacheKey(providerID)).Err()
}
