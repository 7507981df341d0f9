package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo        bool      `json:"mongo"`
	SessionRedis bool      `json:"sessionRedis"`
	TokenRedis   bool      `json:"tokenRedis"`
	CheckedAt    time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(sessionRedis, tokenRedis *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			status := HealthStatus{CheckedAt: time.Now()}

			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			status.Mongo = mongoClient.Ping(pingCtx, nil) == nil
			cancel()

			status.SessionRedis = sessionRedis.Ping(ctx).Err() == nil
			status.TokenRedis = tokenRedis.Ping(ctx).Err() == nil

			healthMu.Lock()
			currentHealth = status
			healthMu.Unlock()
		}
	}()
}
