package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatalf("burst of two should be allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Fatalf("third request should be limited")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatalf("other IPs have their own bucket")
	}
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.Allow("1.1.1.1")

	l.cleanup(time.Now())
	if _, ok := l.ips.Load("1.1.1.1"); !ok {
		t.Fatalf("recently seen client should be kept")
	}
	l.cleanup(time.Now().Add(limiterIdleTTL + time.Second))
	if _, ok := l.ips.Load("1.1.1.1"); ok {
		t.Fatalf("idle client should be removed")
	}
}

func TestAllowByRedis_DisabledReturnsOK(t *testing.T) {
	ok, err := allowByRedis(context.Background(), nil, "k", 1, time.Second)
	if err != nil || !ok {
		t.Fatalf("expected ok without client, got ok=%v err=%v", ok, err)
	}
}

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAllowByRedis_UnavailableReturnsError(t *testing.T) {
	ok, err := allowByRedis(context.Background(), unreachableRedis(t), "k", 1, time.Second)
	if err == nil || ok {
		t.Fatalf("expected redis error, got ok=%v err=%v", ok, err)
	}
}

func TestRateLimit_FallsBackToLocal(t *testing.T) {
	shared := NewRedisLimiter(unreachableRedis(t), "test", 100, time.Minute)
	r := gin.New()
	r.GET("/", RateLimit(NewIPRateLimiter(rate.Limit(0.001), 1), shared), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := []int{}
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected local limiter to apply, got %v", codes)
	}
}

func TestUploadBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/upload", UploadBodyLimit(1), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("small")))
	if w.Code != http.StatusNoContent {
		t.Fatalf("small body should pass, got %d", w.Code)
	}

	big := strings.Repeat("x", 2*1024*1024)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(big)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("large body should be rejected, got %d", w.Code)
	}
}
