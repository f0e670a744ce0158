package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitRecommendGroupSeparateFromDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test-guest")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: GroupDefault,
		GroupFor:     RecommendGroup,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			GroupDefault:   {Rate: 1, Burst: 2},
			GroupRecommend: {Rate: 5, Burst: 3},
		},
	}))

	r.POST("/api/v1/recommendations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/v1/irrigation/readings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("recommend request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/irrigation/readings", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("default request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/irrigation/readings", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("default request 3 expected 429, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("recommend request 4 expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		Limiter: limiter,
		Rules: map[string]RateLimitRule{
			GroupDefault: {Rate: 1, Burst: 1},
		},
	}))
	r.GET("/api/v1/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, req1)
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp2.Header().Get("Retry-After"))
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected code rate_limited, got %q", payload.Error.Code)
	}
	if _, ok := payload.Error.Details["retryAfterMs"]; !ok {
		t.Fatalf("expected retryAfterMs in details")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 2, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected first call allowed")
	}
	ok, wait := limiter.Allow("k", rule)
	if ok || wait != 500*time.Millisecond {
		t.Fatalf("expected denial with 500ms wait, got ok=%v wait=%s", ok, wait)
	}
	now = now.Add(500 * time.Millisecond)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("expected refill after wait")
	}
}

func TestRateLimitGuestsShareClientIPBucket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(userIDKey, id)
			c.Set(isGuestKey, strings.HasPrefix(id, guestPrefix))
		}
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		GroupFor: RecommendGroup,
		Limiter:  limiter,
		Rules: map[string]RateLimitRule{
			GroupRecommend: {Rate: 1, Burst: 3},
		},
	}))
	r.POST("/api/v1/recommendations", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	post := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	limited := 0
	for i := 0; i < 20; i++ {
		if post(fmt.Sprintf("guest:%08d-0000-4000-8000-000000000000", i)) == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 17 {
		t.Fatalf("expected rotating guest IDs to share one bucket (17 limited), got %d", limited)
	}
	if code := post(""); code != http.StatusTooManyRequests {
		t.Fatalf("expected anonymous caller on the same IP to be limited, got %d", code)
	}
	if code := post("farmer-1"); code != http.StatusOK {
		t.Fatalf("expected signed-in user to get its own bucket, got %d", code)
	}
}

func TestRateLimiterDropsRefilledBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 2}

	for i := 0; i < 50; i++ {
		limiter.Allow(fmt.Sprintf("ip:10.0.0.%d|DEFAULT", i), rule)
	}
	if got := limiter.Len(); got != 50 {
		t.Fatalf("expected 50 buckets, got %d", got)
	}

	now = now.Add(2 * time.Minute)
	limiter.Allow("ip:10.0.0.200|DEFAULT", rule)
	if got := limiter.Len(); got != 1 {
		t.Fatalf("expected refilled buckets to be dropped, got %d", got)
	}
}

func TestRateLimiterKeepsDrainedBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	slow := RateLimitRule{Rate: 0.001, Burst: 1}

	if ok, _ := limiter.Allow("slow", slow); !ok {
		t.Fatalf("expected first call allowed")
	}
	now = now.Add(2 * time.Minute)
	limiter.Allow("other", RateLimitRule{Rate: 1, Burst: 1})
	if ok, _ := limiter.Allow("slow", slow); ok {
		t.Fatalf("expected drained bucket to survive the sweep and deny")
	}
}
