package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Memory is a mutex-guarded map cache for development and tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	data    []byte
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memEntry{}}
}

func (m *Memory) Get(_ context.Context, key string, v any) bool {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(e.data, v) == nil
}

func (m *Memory) Set(_ context.Context, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = memEntry{data: b, expires: expires}
	m.mu.Unlock()
}

func (m *Memory) Delete(_ context.Context, key string) bool {
	m.mu.Lock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	m.mu.Unlock()
	return ok
}

func (m *Memory) DeleteByPrefix(_ context.Context, prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

func (m *Memory) Stats(_ context.Context) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]any{"enabled": true, "backend": "memory", "keys_count": len(m.entries)}
}

func (m *Memory) Enabled() bool { return true }
