package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis caches JSON values in Redis. Every operation fails open: a backend
// error logs and behaves as a miss so planning never blocks on the cache.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Redis{rdb: redis.NewClient(opt)}, nil
}

// NewRedisClient wraps an existing client (used by tests with miniredis).
func NewRedisClient(rdb *redis.Client) *Redis { return &Redis{rdb: rdb} }

func (c *Redis) Get(ctx context.Context, key string, v any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("cache get failed key=%s err=%v", key, err)
		}
		return false
	}
	return json.Unmarshal(b, v) == nil
}

func (c *Redis) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Printf("cache set failed key=%s err=%v", key, err)
	}
}

func (c *Redis) Delete(ctx context.Context, key string) bool {
	n, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		log.Printf("cache delete failed key=%s err=%v", key, err)
		return false
	}
	return n > 0
}

func (c *Redis) DeleteByPrefix(ctx context.Context, prefix string) int {
	deleted := 0
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			log.Printf("cache scan failed prefix=%s err=%v", prefix, err)
			return deleted
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				log.Printf("cache delete failed prefix=%s err=%v", prefix, err)
				return deleted
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted
		}
	}
}

func (c *Redis) Stats(ctx context.Context) map[string]any {
	n, err := c.rdb.DBSize(ctx).Result()
	if err != nil {
		return map[string]any{"enabled": true, "backend": "redis", "connected": false, "error": err.Error()}
	}
	return map[string]any{"enabled": true, "backend": "redis", "connected": true, "keys_count": n}
}

func (c *Redis) Enabled() bool { return true }
