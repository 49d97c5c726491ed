package utils

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sotaworks/honne/config"
)

var redisClient *redis.Client

// InitRedis creates the shared Redis client when a host is configured.
// Without one the client stays nil and every cache helper is a no-op, so the
// service (and its tests) run fine with no Redis at all.
func InitRedis(cfg config.AppConfig) {
	if cfg.RedisHost == "" {
		return
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("redis unreachable, cache degraded: %v", err)
	}
}

// GetRedis returns the shared Redis client, or nil when caching is disabled.
func GetRedis() *redis.Client {
	return redisClient
}
