package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripagent/internal/model"
)

// ErrNotFound is returned for missing or expired share records.
var ErrNotFound = errors.New("not found")

// Record is a shared itinerary as persisted. ExpiresAt nil means persistent.
type Record struct {
	ShareID   string          `json:"share_id"`
	Itinerary model.Itinerary `json:"itinerary"`
	Score     float64         `json:"score,omitempty"`
	Reasons   []string        `json:"reasons,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Version   string          `json:"version"`
}

// Store persists share records. Implementations honor ttl=0 as "no expiry".
type Store interface {
	SaveItinerary(ctx context.Context, rec Record, ttl time.Duration) error
	GetItinerary(ctx context.Context, shareID string) (Record, error)
	DeleteItinerary(ctx context.Context, shareID string) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	Ping(ctx context.Context) error
}

// NewShareID builds a share identifier: 8 hex chars of a content hash (for
// dedup-friendly URLs) plus 8 random hex chars for uniqueness.
func NewShareID(payload []byte) string {
	sum := sha256.Sum256(payload)
	random := strings.ReplaceAll(uuid.New().String(), "-", "")
	return hex.EncodeToString(sum[:4]) + "-" + random[:8]
}

// NewFromEnv selects the backend: REDIS_URL, then DATABASE_URL, then memory.
func NewFromEnv() (Store, error) {
	if url := strings.TrimSpace(os.Getenv("REDIS_URL")); url != "" {
		return NewRedis(url)
	}
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		return NewPostgres(dsn)
	}
	return NewMemory(), nil
}
