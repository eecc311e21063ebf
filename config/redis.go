package config

import (
	"context"
	"os"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance. When nil, features that rely
// on Redis (per-location reconciliation locks) fall back to single-process mode.
var RedisClient *redis.Client

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
}

func RedisCtx() context.Context {
	return context.Background()
}

// RedisLocker returns a distributed lock client, or nil when Redis is not
// configured.
func RedisLocker() *redislock.Client {
	if RedisClient == nil {
		return nil
	}
	return redislock.New(RedisClient)
}
