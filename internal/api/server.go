package api

import (
	"os"
	"strings"

	"tripagent/internal/cache"
	"tripagent/internal/store"
)

type Server struct {
	Store   store.Store
	Cache   cache.Cache
	DataDir string
	BaseURL string
	Limiter Limiter
}

// NewServer wires the server from the environment: store backend via
// REDIS_URL/DATABASE_URL, cache via REDIS_URL/CACHE, spot data files from
// SPOTS_DIR (default "data").
func NewServer() (*Server, error) {
	st, err := store.NewFromEnv()
	if err != nil {
		return nil, err
	}
	dir := strings.TrimSpace(os.Getenv("SPOTS_DIR"))
	if dir == "" {
		dir = "data"
	}
	base := strings.TrimSpace(os.Getenv("BASE_URL"))
	if base == "" {
		base = "http://localhost:8080"
	}
	return &Server{
		Store:   st,
		Cache:   cache.NewFromEnv(),
		DataDir: dir,
		BaseURL: strings.TrimRight(base, "/"),
		Limiter: NewLimiterFromEnv(),
	}, nil
}
