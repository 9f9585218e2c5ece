package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func TestLocalLimiterBurst(t *testing.T) {
	l := newLocalLimiter(rate.Limit(0.001), 2)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("request %d within burst denied", i)
		}
	}
	ok, retry := l.Allow(ctx, "1.2.3.4")
	if ok {
		t.Fatalf("request over burst allowed")
	}
	if retry < 1 {
		t.Fatalf("retry = %d", retry)
	}
	// a different client has its own bucket
	if ok, _ := l.Allow(ctx, "5.6.7.8"); !ok {
		t.Fatalf("unrelated client denied")
	}
}

func TestRedisLimiterWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	l := &redisLimiter{rdb: redis.NewClient(&redis.Options{Addr: mr.Addr()}), window: time.Minute, max: 2}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "a"); !ok {
			t.Fatalf("request %d within window denied", i)
		}
	}
	ok, retry := l.Allow(ctx, "a")
	if ok {
		t.Fatalf("request over window allowed")
	}
	if retry < 1 {
		t.Fatalf("retry = %d", retry)
	}
}

func TestRedisLimiterFailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	l := &redisLimiter{rdb: redis.NewClient(&redis.Options{Addr: mr.Addr()}), window: time.Minute, max: 1}
	mr.Close()
	if ok, _ := l.Allow(context.Background(), "a"); !ok {
		t.Fatalf("unavailable backend must fail open")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := clientIP(r); got != "10.0.0.1" {
		t.Fatalf("clientIP = %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(r); got != "203.0.113.9" {
		t.Fatalf("clientIP with XFF = %q", got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := &Server{Limiter: newLocalLimiter(rate.Limit(0.001), 1)}
	h := s.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/plan", nil)
	req.RemoteAddr = "1.2.3.4:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After header")
	}
}

func TestRateLimitNilLimiterPassesThrough(t *testing.T) {
	s := &Server{}
	h := s.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/plan", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}
