package router

import (
	"fmt"
	"strings"

	"github.com/freshcart-shop/freshcart/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc derives the limiter key from a request.
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule is a fixed-window request limit.
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RateLimitMiddleware enforces a fixed-window limit in Redis. With no
// Redis client or an empty rule it passes everything through.
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}

		result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, rule.WindowSeconds).Result()
		if err != nil {
			response.Internal(c, "Rate limiter unavailable")
			c.Abort()
			return
		}

		values, ok := result.([]interface{})
		if !ok || len(values) < 2 {
			response.Internal(c, "Rate limiter unavailable")
			c.Abort()
			return
		}
		count, ok := toInt64(values[0])
		if !ok {
			response.Internal(c, "Rate limiter unavailable")
			c.Abort()
			return
		}
		ttlSeconds, _ := toInt64(values[1])
		if count > int64(rule.MaxRequests) {
			waitSeconds := int(ttlSeconds)
			if waitSeconds < 1 {
				waitSeconds = rule.WindowSeconds
			}
			if waitSeconds < 1 {
				waitSeconds = 1
			}
			response.TooManyRequests(c, fmt.Sprintf("Too many requests, retry in %d seconds", waitSeconds))
			c.Abort()
			return
		}

		c.Next()
	}
}

// KeyByIP keys the limiter on client IP.
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByUserID keys the limiter on the authenticated user, falling back
// to IP when the request is anonymous.
func KeyByUserID(c *gin.Context) string {
	value, ok := c.Get("user_id")
	if !ok {
		return c.ClientIP()
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return c.ClientIP()
	}
	return fmt.Sprintf("u%d", userID)
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
