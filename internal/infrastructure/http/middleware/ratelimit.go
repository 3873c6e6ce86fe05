package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address. Buckets idle for
// longer than the cleanup interval are dropped.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	idle    time.Duration
	now     func() time.Time

	onReject func()
	logger   *zap.Logger
	stop     chan struct{}
	once     sync.Once
}

// NewRateLimiter creates a limiter from cfg and starts its cleanup loop.
// onReject is called for every refused request and may be nil.
func NewRateLimiter(cfg config.RateLimitConfig, onReject func(), logger *zap.Logger) *RateLimiter {
	idle := cfg.CleanupInterval
	if idle <= 0 {
		idle = time.Minute
	}
	rl := &RateLimiter{
		clients:  make(map[string]*client),
		limit:    rate.Limit(float64(cfg.RequestsPerMin) / 60),
		burst:    cfg.BurstSize,
		idle:     idle,
		now:      time.Now,
		onReject: onReject,
		logger:   logger.Named("rate-limiter"),
		stop:     make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Allow reports whether a request from key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = rl.now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

// Handler rejects requests over the limit with TOO_MANY_REQUESTS
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.Allow(key) {
			if rl.onReject != nil {
				rl.onReject()
			}
			rl.logger.Debug("Rate limit exceeded", zap.String("client", key))
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			respond.Error(w, r, rl.logger, errors.NewTooManyRequestsError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Close stops the cleanup loop
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.idle)
	for key, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) retryAfter() int {
	if rl.limit <= 0 {
		return 60
	}
	seconds := int(1 / float64(rl.limit))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// clientKey prefers the address set by chi's RealIP middleware
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
