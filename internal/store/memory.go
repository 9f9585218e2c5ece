package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is the in-process store used when neither Redis nor Postgres is
// configured. Expiry is checked on read.
type Memory struct {
	mu   sync.Mutex
	recs map[string]Record
}

func NewMemory() *Memory {
	return &Memory{recs: map[string]Record{}}
}

func (m *Memory) SaveItinerary(_ context.Context, rec Record, ttl time.Duration) error {
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		rec.ExpiresAt = &exp
	}
	m.mu.Lock()
	m.recs[rec.ShareID] = rec
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetItinerary(_ context.Context, shareID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[shareID]
	if !ok {
		return Record{}, ErrNotFound
	}
	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		delete(m.recs, shareID)
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) DeleteItinerary(_ context.Context, shareID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[shareID]; !ok {
		return ErrNotFound
	}
	delete(m.recs, shareID)
	return nil
}

func (m *Memory) ListRecent(_ context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	out := make([]Record, 0, len(m.recs))
	for _, rec := range m.recs {
		if rec.ExpiresAt != nil && now.After(*rec.ExpiresAt) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Ping(context.Context) error { return nil }
