package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// TTLs for the cached response families.
const (
	SpotsTTL  = time.Hour
	CitiesTTL = time.Hour
	PlanTTL   = 30 * time.Minute
)

// Cache stores JSON-encodable values with a TTL. Implementations are
// fail-open: an unavailable backend degrades to misses, never to errors.
type Cache interface {
	// Get unmarshals the cached value into v and reports whether it was found.
	Get(ctx context.Context, key string, v any) bool
	Set(ctx context.Context, key string, v any, ttl time.Duration)
	Delete(ctx context.Context, key string) bool
	// DeleteByPrefix removes every key with the given prefix and returns the count.
	DeleteByPrefix(ctx context.Context, prefix string) int
	Stats(ctx context.Context) map[string]any
	Enabled() bool
}

// NewFromEnv selects the cache backend: REDIS_URL for Redis, CACHE=memory for
// the in-process map, otherwise caching is disabled.
func NewFromEnv() Cache {
	if url := os.Getenv("REDIS_URL"); strings.TrimSpace(url) != "" {
		if c, err := NewRedis(url); err == nil {
			return c
		}
	}
	if os.Getenv("CACHE") == "memory" {
		return NewMemory()
	}
	return Disabled{}
}

// ===== key helpers =====

func SpotsKey(city string) string { return "spots:" + city }

func CitiesKey() string { return "cities" }

// PlanKey identifies a plan response by city, day count, the selected spot
// set (order-insensitive hash), and transport mode.
func PlanKey(city string, days int, selected []string, mode string) string {
	sel := "all"
	if len(selected) > 0 {
		sorted := make([]string, len(selected))
		copy(sorted, selected)
		sort.Strings(sorted)
		sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
		sel = hex.EncodeToString(sum[:4])
	}
	if mode == "" {
		mode = "none"
	}
	return fmt.Sprintf("plan:%s:d%d:s%s:m%s", city, days, sel, mode)
}

func ItineraryKey(shareID string) string { return "itinerary:" + shareID }

// Disabled is the no-op cache used when nothing is configured.
type Disabled struct{}

func (Disabled) Get(context.Context, string, any) bool             { return false }
func (Disabled) Set(context.Context, string, any, time.Duration)   {}
func (Disabled) Delete(context.Context, string) bool               { return false }
func (Disabled) DeleteByPrefix(context.Context, string) int        { return 0 }
func (Disabled) Enabled() bool                                     { return false }
func (Disabled) Stats(context.Context) map[string]any {
	return map[string]any{"enabled": false, "message": "cache is disabled"}
}
