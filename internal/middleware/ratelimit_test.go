package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func doRequest(h http.Handler, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	store := newLimiterStore(RateLimitConfig{Rate: 1, Burst: 3, ExpiresIn: time.Minute}, clock.now)

	called := false
	handler := rateLimit(store, zerolog.Nop())(okHandler(&called))

	for i := 0; i < 3; i++ {
		w := doRequest(handler, "/api/products", "10.0.0.1:1000")
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := doRequest(handler, "/api/products", "10.0.0.1:1001")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// another client has its own bucket
	w = doRequest(handler, "/api/products", "10.0.0.2:1000")
	assert.Equal(t, http.StatusOK, w.Code)

	// one token refills after a second
	clock.advance(time.Second)
	w = doRequest(handler, "/api/products", "10.0.0.1:1000")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_HealthNotLimited(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	store := newLimiterStore(RateLimitConfig{Rate: 1, Burst: 1}, clock.now)

	called := false
	handler := rateLimit(store, zerolog.Nop())(okHandler(&called))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(handler, "/health", "10.0.0.1:1").Code)
	}
	assert.Equal(t, 0, store.size())
}

func TestLimiterStore_ForgetsIdleClients(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	store := newLimiterStore(RateLimitConfig{Rate: 1, Burst: 1, ExpiresIn: time.Minute}, clock.now)

	store.allow("a")
	store.allow("b")
	assert.Equal(t, 2, store.size())

	clock.advance(2 * time.Minute)
	store.allow("c")

	assert.Equal(t, 1, store.size())
}
