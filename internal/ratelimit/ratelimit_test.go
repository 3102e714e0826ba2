package ratelimit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newWithClock(limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := New(limit, window)
	rl.now = clock.now
	return rl, clock
}

func TestAllow_SlidingWindow(t *testing.T) {
	rl, clock := newWithClock(2, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	clock.t = clock.t.Add(10 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "keys are independent")

	// first request leaves the window
	clock.t = clock.t.Add(51 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.Equal(t, 0, rl.Remaining("1.2.3.4"))
}

func TestResetAt_OldestRequestPlusWindow(t *testing.T) {
	rl, clock := newWithClock(3, time.Minute)
	start := clock.t

	assert.Equal(t, start, rl.ResetAt("k"))

	rl.Allow("k")
	clock.t = clock.t.Add(5 * time.Second)
	rl.Allow("k")

	assert.Equal(t, start.Add(time.Minute), rl.ResetAt("k"))
	assert.Equal(t, 1, rl.Remaining("k"))
}

func TestCleanup_DropsIdleKeys(t *testing.T) {
	rl, clock := newWithClock(1, time.Second)
	rl.Allow("a")
	clock.t = clock.t.Add(2 * time.Second)
	rl.Allow("b")

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.requests, "a")
	assert.Contains(t, rl.requests, "b")
}

func TestMiddleware_RateLimitExceeded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim := New(1, time.Minute)
	r := gin.New()
	r.Use(Middleware(lim))
	r.POST("/api/contact", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/contact", nil))
	require.Equal(t, 200, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/contact", nil))
	require.Equal(t, 429, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded. Try again later.", body["error"])
	assert.Contains(t, body, "reset_time")
}
