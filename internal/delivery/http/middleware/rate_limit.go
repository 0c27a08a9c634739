package middleware

import (
	"net/http"
	"strconv"
	"time"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/ratelimit"
	"portfolio-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
	// Redis client; nil uses the in-memory limiter only
	Redis *goredis.Client
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
}

// ContactRateLimitConfig limits contact form posts per client IP
func ContactRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:contact:",
		Redis:     redis.Client(),
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware uses a Redis fixed window when available and falls back
// to an in-memory token bucket when Redis is missing or erroring. A
// non-positive Limit disables limiting on both paths.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.Limit <= 0 || config.Window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	fallback := ratelimit.New(config.Limit, config.Window)
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := config.KeyFunc(c)
		now := time.Now()

		allowed, retryAfter, remaining := true, time.Duration(0), -1

		if config.Redis != nil {
			count, ttl, err := redis.IncrWindow(c.Request.Context(), config.Redis, config.KeyPrefix+key, config.Window)
			if err == nil {
				allowed = count <= config.Limit
				retryAfter = ttl
				remaining = config.Limit - count
			} else {
				logger.Log.WarnContext(c.Request.Context(), "redis rate limit unavailable, using in-memory fallback", "error", err)
				allowed = fallback.Allow(key, now)
				if !allowed {
					retryAfter = fallback.RetryAfter(key, now)
				}
			}
		} else {
			allowed = fallback.Allow(key, now)
			if !allowed {
				retryAfter = fallback.RetryAfter(key, now)
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		if remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		if !allowed {
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))

			logger.Log.WarnContext(c.Request.Context(), "rate limit triggered", "ip", c.ClientIP(), "path", c.FullPath())
			response.Error(c, http.StatusTooManyRequests, "Too many messages. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
