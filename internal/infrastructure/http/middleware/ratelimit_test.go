package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLimiter(t *testing.T, perMin, burst int, onReject func()) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(config.RateLimitConfig{
		Enable:          true,
		RequestsPerMin:  perMin,
		BurstSize:       burst,
		CleanupInterval: time.Hour,
	}, onReject, zap.NewNop())
	t.Cleanup(rl.Close)
	return rl
}

func TestRateLimiterAllowsBurstPerClient(t *testing.T) {
	rl := newLimiter(t, 1, 2, nil)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiterSweepDropsIdleClients(t *testing.T) {
	rl := newLimiter(t, 60, 1, nil)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(2 * time.Hour)
	rl.Allow("fresh")

	rl.sweep()
	assert.Equal(t, 1, rl.Len())
	_, kept := rl.clients["fresh"]
	assert.True(t, kept)
}

func TestRateLimiterHandler(t *testing.T) {
	rejected := 0
	rl := newLimiter(t, 30, 1, func() { rejected++ })
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
		req.RemoteAddr = "192.0.2.7:41234"
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, send().Code)

	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")
	assert.Equal(t, 1, rejected)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:5000"
	assert.Equal(t, "198.51.100.4", clientKey(req))

	req.RemoteAddr = "198.51.100.4"
	assert.Equal(t, "198.51.100.4", clientKey(req))
}
