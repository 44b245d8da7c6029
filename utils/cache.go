// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"furever/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// AvailabilityCacheClient is the dedicated client for availability snapshots.
	AvailabilityCacheClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAvailabilityCache initializes the Redis client that holds
// per-provider availability snapshots for offline fallback.
func InitAvailabilityCache() {
	AvailabilityCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAvailabilityDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AvailabilityCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Availability Cache): %v", err)
	}
}

// GetAvailabilityCacheClient returns the availability snapshot client.
func GetAvailabilityCacheClient() *redis.Client {
	if AvailabilityCacheClient == nil {
		InitAvailabilityCache()
	}
	return AvailabilityCacheClient
}

// InitRedis initializes all Redis clients.
func InitRedis() {
	InitCache()
	InitAvailabilityCache()
}
