package store

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const recentKey = "itineraries:recent"

// Redis stores share records as JSON values under itinerary:<shareID> with a
// native TTL, plus a capped recency list for the admin listing.
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

func (s *Redis) key(shareID string) string { return "itinerary:" + shareID }

func (s *Redis) SaveItinerary(ctx context.Context, rec Record, ttl time.Duration) error {
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		rec.ExpiresAt = &exp
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(rec.ShareID), b, ttl).Err(); err != nil {
		return err
	}
	pipe := s.rdb.Pipeline()
	pipe.LPush(ctx, recentKey, rec.ShareID)
	pipe.LTrim(ctx, recentKey, 0, 99)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Redis) GetItinerary(ctx context.Context, shareID string) (Record, error) {
	b, err := s.rdb.Get(ctx, s.key(shareID)).Bytes()
	if err == redis.Nil {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Redis) DeleteItinerary(ctx context.Context, shareID string) error {
	n, err := s.rdb.Del(ctx, s.key(shareID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.rdb.LRem(ctx, recentKey, 0, shareID)
	return nil
}

func (s *Redis) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	ids, err := s.rdb.LRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetItinerary(ctx, id)
		if err == ErrNotFound {
			continue // expired
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Redis) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
