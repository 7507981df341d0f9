// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"lexcitas/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds conversation sessions.
	SessionCacheClient *redis.Client
	// TokenCacheClient holds single-use document upload token records.
	TokenCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client backing the session store.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Sessions): %v", err)
	}
}

// GetSessionCacheClient returns the session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitTokenCache initializes the Redis client for upload token records.
func InitTokenCache() {
	TokenCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTokenDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := TokenCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Tokens): %v", err)
	}
}

// GetTokenCacheClient returns the Redis client for upload token records.
func GetTokenCacheClient() *redis.Client {
	if TokenCacheClient == nil {
		InitTokenCache()
	}
	return TokenCacheClient
}

// InitRedis initializes every Redis client the service uses.
func InitRedis() {
	InitSessionCache()
	InitTokenCache()
}
