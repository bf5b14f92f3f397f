package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is a point-in-time snapshot of the engine's backing stores.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	lastSnapshot HealthStatus
	snapshotMu   sync.RWMutex
)

// GetHealthStatus returns the most recent snapshot. Zero-valued until the
// monitor's first tick.
func GetHealthStatus() HealthStatus {
	snapshotMu.RLock()
	defer snapshotMu.RUnlock()
	return lastSnapshot
}

// StartHealthMonitor pings Mongo and each Redis client once a minute and
// refreshes the snapshot served by the health endpoint.
func StartHealthMonitor(redisClients []*redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			redisHealth := make([]bool, 0, len(redisClients))
			for _, client := range redisClients {
				redisHealth = append(redisHealth, client.Ping(ctx).Err() == nil)
			}

			snapshot := HealthStatus{
				Mongo:     mongoClient.Ping(ctx, nil) == nil,
				Redis:     redisHealth,
				CheckedAt: time.Now(),
			}

			snapshotMu.Lock()
			lastSnapshot = snapshot
			snapshotMu.Unlock()
		}
	}()
}
