package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether a client may issue another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// fixedWindowScript increments the counter for the current window and sets
// its expiry on first use.
var fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisLimiter is a fixed-window counter shared by every replica.
type RedisLimiter struct {
	Client redis.Scripter
	Limit  int
	Window time.Duration
	Prefix string
	now    func() time.Time
}

// NewRedisLimiter allows requestsPerMinute+burst requests per client per minute.
func NewRedisLimiter(client redis.Scripter, requestsPerMinute, burst int) *RedisLimiter {
	return &RedisLimiter{
		Client: client,
		Limit:  requestsPerMinute + burst,
		Window: time.Minute,
		Prefix: "factcheck:ratelimit:",
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	window := now().UnixMilli() / l.Window.Milliseconds()
	redisKey := l.Prefix + key + ":" + strconv.FormatInt(window, 10)
	n, err := fixedWindowScript.Run(ctx, l.Client, []string{redisKey}, l.Window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= int64(l.Limit), nil
}

// LocalLimiter keeps one token bucket per client in process memory. Buckets
// idle for longer than IdleTTL are evicted; by then they have refilled, so a
// returning client sees the same allowance as a fresh bucket.
type LocalLimiter struct {
	mu        sync.Mutex
	clients   map[string]*localClient
	limit     rate.Limit
	burst     int
	IdleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localClient struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter refills requestsPerMinute tokens per minute with the given burst.
func NewLocalLimiter(requestsPerMinute, burst int) *LocalLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(float64(requestsPerMinute) / 60)
	idle := time.Minute
	if refill := time.Duration(float64(burst) / float64(limit) * float64(time.Second)); refill > idle {
		idle = refill
	}
	return &LocalLimiter{
		clients: make(map[string]*localClient),
		limit:   limit,
		burst:   burst,
		IdleTTL: idle,
		now:     time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.IdleTTL {
		l.sweep(now)
	}
	c, ok := l.clients[key]
	if !ok {
		c = &localClient{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	allowed := c.lim.AllowN(now, 1)
	l.mu.Unlock()
	return allowed, nil
}

// sweep drops idle clients. Caller holds mu.
func (l *LocalLimiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.IdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked clients.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit rejects clients over their limit with 429. Limiter errors let
// the request through.
func RateLimit(l Limiter, logger *log.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := l.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				logger.Printf("rate limiter unavailable: %v", err)
				return next(c)
			}
			if !ok {
				rateLimitedTotal.Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please retry later")
			}
			return next(c)
		}
	}
}
