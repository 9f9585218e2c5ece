package api

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"tripagent/internal/metrics"
)

// Limiter answers whether a client key may proceed. retryAfter is the number
// of seconds to wait when denied.
type Limiter interface {
	Allow(ctx context.Context, key string) (ok bool, retryAfter int)
}

// NewLimiterFromEnv reads RATE_RPS/RATE_BURST. RATE_RPS unset or 0 disables
// limiting. With REDIS_URL set, a shared sliding window is used so limits
// hold across replicas; otherwise per-process token buckets.
func NewLimiterFromEnv() Limiter {
	rps, _ := strconv.ParseFloat(os.Getenv("RATE_RPS"), 64)
	if rps <= 0 {
		return nil
	}
	burst, _ := strconv.Atoi(os.Getenv("RATE_BURST"))
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	if url := strings.TrimSpace(os.Getenv("REDIS_URL")); url != "" {
		if opt, err := redis.ParseURL(url); err == nil {
			return &redisLimiter{rdb: redis.NewClient(opt), window: time.Minute, max: int(rps * 60)}
		}
	}
	return newLocalLimiter(rate.Limit(rps), burst)
}

// ===== in-process token buckets =====

type localLimiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*clientBucket
}

type clientBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLocalLimiter(rps rate.Limit, burst int) *localLimiter {
	return &localLimiter{rps: rps, burst: burst, clients: map[string]*clientBucket{}}
}

func (l *localLimiter) Allow(_ context.Context, key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	b, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= 4096 {
			l.evictIdle(now)
		}
		b = &clientBucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = b
	}
	b.seen = now
	if b.lim.Allow() {
		return true, 0
	}
	return false, 1
}

// evictIdle drops buckets not seen for ten minutes. Called with mu held.
func (l *localLimiter) evictIdle(now time.Time) {
	for k, b := range l.clients {
		if now.Sub(b.seen) > 10*time.Minute {
			delete(l.clients, k)
		}
	}
}

// ===== redis sliding window =====

type redisLimiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, int) {
	now := time.Now()
	rkey := "rate:" + key
	cutoff := strconv.FormatInt(now.Add(-l.window).UnixNano(), 10)

	pipe := l.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, rkey, "0", cutoff)
	card := pipe.ZCard(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("rate limiter degraded err=%v", err)
		return true, 0 // fail open
	}
	if int(card.Val()) >= l.max {
		retry := 1
		if oldest, err := l.rdb.ZRangeWithScores(ctx, rkey, 0, 0).Result(); err == nil && len(oldest) > 0 {
			at := time.Unix(0, int64(oldest[0].Score)).Add(l.window)
			if d := int(time.Until(at).Seconds()) + 1; d > retry {
				retry = d
			}
		}
		return false, retry
	}
	pipe = l.rdb.Pipeline()
	pipe.ZAdd(ctx, rkey, redis.Z{Score: float64(now.UnixNano()), Member: strconv.FormatInt(now.UnixNano(), 10)})
	pipe.Expire(ctx, rkey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("rate limiter degraded err=%v", err)
	}
	return true, 0
}

// clientIP keys the limiter: first X-Forwarded-For hop when present,
// otherwise the connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit guards /v1/* with the configured limiter; a nil limiter passes
// everything through.
func (s *Server) RateLimit(next http.Handler) http.Handler {
	if s.Limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := s.Limiter.Allow(r.Context(), clientIP(r))
		if !ok {
			metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests",
				fmt.Sprintf("retry_after=%ds", retry))
			return
		}
		next.ServeHTTP(w, r)
	})
}
