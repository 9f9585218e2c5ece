package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tripagent/internal/api"
	"tripagent/internal/ingest"
	"tripagent/internal/metrics"
)

func main() {
	_ = godotenv.Load()
	metrics.RegisterDefault()

	srv, err := api.NewServer()
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	v1 := http.NewServeMux()

	// Planning
	v1.HandleFunc("/v1/plan", srv.PlanHandler)

	// Spot data
	v1.HandleFunc("/v1/cities", srv.CitiesHandler)
	v1.HandleFunc("/v1/cities/", srv.CitySpotsHandler)

	// Shared itineraries
	v1.HandleFunc("/v1/itineraries", srv.ItinerariesHandler)
	v1.HandleFunc("/v1/itineraries/", srv.ItineraryByIDHandler)

	// Admin
	v1.HandleFunc("/v1/admin/plan-metrics", srv.PlanMetricsHandler)
	v1.HandleFunc("/v1/admin/cache/stats", srv.CacheStatsHandler)
	v1.HandleFunc("/v1/admin/cache/purge", srv.CachePurgeHandler)

	mux := http.NewServeMux()
	mux.Handle("/v1/", srv.RateLimit(v1))

	// Health
	mux.HandleFunc("/healthz", srv.HealthHandler)
	mux.HandleFunc("/readyz", srv.ReadyHandler)
	mux.HandleFunc("/debug/info", srv.DebugJSON)

	// Docs + metrics
	mux.HandleFunc("/openapi.yaml", srv.OpenAPIHandler)
	mux.HandleFunc("/openapi.json", srv.OpenAPIJSONHandler)
	mux.HandleFunc("/docs", srv.DocsHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Optional background OSM refresh
	if path := os.Getenv("SPOT_REFRESH_CONFIG"); path != "" {
		cfg, err := ingest.LoadRefreshConfig(path)
		if err != nil {
			log.Fatalf("refresh config: %v", err)
		}
		ingest.NewWorker(nil, cfg).Start()
		log.Printf("spot refresh worker started cities=%d interval=%dm", len(cfg.Cities), cfg.IntervalMinutes)
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           api.LogMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("API listening on %s", addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
