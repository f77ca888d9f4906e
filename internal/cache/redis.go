package cache

import (
	"fmt"
	"strings"

	"github.com/freshcart-shop/freshcart/internal/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client
var redisEnabled bool

// InitRedis initializes the Redis client. A nil or disabled config
// turns every cache operation into a no-op.
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		redisEnabled = false
		return nil
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	redisEnabled = true
	return nil
}

// Enabled reports whether caching is active.
func Enabled() bool {
	return redisEnabled && redisClient != nil
}

// Client returns the raw Redis client, or nil when disabled.
func Client() *redis.Client {
	if !Enabled() {
		return nil
	}
	return redisClient
}
