package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL      = 3 * time.Minute
	limiterCleanupEvery = time.Minute
	redisLimitTimeout   = 200 * time.Millisecond
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{r: r, b: b}
	go i.cleanupLoop()
	return i
}

func (i *IPRateLimiter) Allow(ip string) bool {
	return i.getLimiter(ip).Allow()
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now().UnixNano()
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen.Store(now)
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen.Store(now)
		return c.limiter
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b)}
	c.lastSeen.Store(now)
	i.ips.Store(ip, c)
	return c.limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupEvery)
	defer ticker.Stop()
	for range ticker.C {
		i.cleanup(time.Now())
	}
}

func (i *IPRateLimiter) cleanup(now time.Time) {
	i.ips.Range(func(key, value interface{}) bool {
		c := value.(*client)
		if now.Sub(time.Unix(0, c.lastSeen.Load())) > limiterIdleTTL {
			i.ips.Delete(key)
		}
		return true
	})
}

// RedisLimiter is a fixed window counter shared by every instance that talks
// to the same Redis.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return allowByRedis(ctx, l.client, l.prefix+":ratelimit:"+ip, l.limit, l.window)
}

func allowByRedis(ctx context.Context, client *redis.Client, key string, limit int, window time.Duration) (bool, error) {
	if client == nil || limit <= 0 || window <= 0 {
		return true, nil
	}

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("redis expire: %w", err)
		}
	}
	return count <= int64(limit), nil
}

// RateLimit answers 429 once a client exceeds its budget. When shared is set
// it decides, and the local limiter takes over whenever Redis fails.
func RateLimit(local *IPRateLimiter, shared *RedisLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if shared != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), redisLimitTimeout)
			allowed, err := shared.Allow(ctx, ip)
			cancel()
			if err == nil {
				if !allowed {
					c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
					return
				}
				c.Next()
				return
			}
			log.Printf("[RateLimit] ⚠️  redis unavailable, using local limiter: %v", err)
		}

		if !local.Allow(ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
