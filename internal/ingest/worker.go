package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tripagent/internal/spots"
)

// RefreshConfig drives the background spot-refresh worker.
type RefreshConfig struct {
	Cities          []string `yaml:"cities"`
	IntervalMinutes int      `yaml:"interval_minutes"`
	DataDir         string   `yaml:"data_dir"`
}

// LoadRefreshConfig reads the worker configuration from a YAML file.
func LoadRefreshConfig(path string) (RefreshConfig, error) {
	var cfg RefreshConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse refresh config %s: %w", path, err)
	}
	if cfg.IntervalMinutes <= 0 {
		cfg.IntervalMinutes = 24 * 60
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	return cfg, nil
}

// Worker periodically refreshes the configured cities' spot files from OSM.
// Failed cities back off exponentially per city.
type Worker struct {
	Client *Client
	Cfg    RefreshConfig
	Stop   chan struct{}

	attempts map[string]int
	nextTry  map[string]time.Time
}

func NewWorker(c *Client, cfg RefreshConfig) *Worker {
	if c == nil {
		c = NewClient()
	}
	return &Worker{
		Client:   c,
		Cfg:      cfg,
		Stop:     make(chan struct{}),
		attempts: map[string]int{},
		nextTry:  map[string]time.Time{},
	}
}

func (w *Worker) Start() {
	go func() {
		ticker := time.NewTicker(time.Duration(w.Cfg.IntervalMinutes) * time.Minute)
		defer ticker.Stop()
		w.refreshOnce()
		for {
			select {
			case <-w.Stop:
				return
			case <-ticker.C:
				w.refreshOnce()
			}
		}
	}()
}

func (w *Worker) refreshOnce() {
	for _, city := range w.Cfg.Cities {
		if until, ok := w.nextTry[city]; ok && time.Now().Before(until) {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		list, err := w.Client.FetchCitySpots(ctx, city)
		cancel()
		if err != nil {
			w.attempts[city]++
			w.nextTry[city] = time.Now().Add(nextBackoff(w.attempts[city]))
			log.Printf("spot refresh failed city=%s attempt=%d err=%v", city, w.attempts[city], err)
			continue
		}
		spots.ApplyDefaults(list)
		if err := spots.Save(w.Cfg.DataDir, city, list); err != nil {
			log.Printf("spot refresh save failed city=%s err=%v", city, err)
			continue
		}
		w.attempts[city] = 0
		delete(w.nextTry, city)
		log.Printf("spot refresh ok city=%s spots=%d", city, len(list))
	}
}

func nextBackoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 10 {
		attempts = 10
	}
	base := time.Minute * time.Duration(1<<attempts)
	if base > 6*time.Hour {
		base = 6 * time.Hour
	}
	return base
}
