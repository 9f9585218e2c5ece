package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tripagent/internal/cache"
	"tripagent/internal/metrics"
	"tripagent/internal/model"
	"tripagent/internal/opt"
	"tripagent/internal/spots"
	"tripagent/internal/store"
)

func modeLabel(mode model.TransportMode) string {
	if mode == "" {
		return "distance"
	}
	return string(mode)
}

// PlanHandler handles POST /v1/plan.
func (s *Server) PlanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body", err.Error())
		return
	}
	mode, err := normalizePlanRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid plan request", err.Error())
		return
	}
	var start time.Time
	if req.StartDate != "" {
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid plan request",
				"start_date must be YYYY-MM-DD")
			return
		}
	}

	ctx := r.Context()
	// Only default-shaped runs are cached; custom configs or trial budgets
	// would poison the shared entry.
	cacheable := req.Config == nil && req.Trials == opt.DefaultTrials
	key := cache.PlanKey(req.City, req.Days, req.SelectedSpots, string(mode))
	var resp model.PlanResponse
	if cacheable && s.Cache.Get(ctx, key, &resp) {
		metrics.CacheHits.WithLabelValues("plan").Inc()
		if !start.IsZero() {
			resp.WeatherAdvice = opt.Advice(&resp.Itinerary, start)
		}
		writeSuccess(w, http.StatusOK, "itinerary generated", resp)
		return
	}
	if cacheable {
		metrics.CacheMisses.WithLabelValues("plan").Inc()
	}

	pool, err := s.loadCitySpots(ctx, req.City)
	if err != nil {
		if errors.Is(err, spots.ErrCityNotFound) {
			writeError(w, http.StatusNotFound, "city_not_found", "unknown city", req.City)
			return
		}
		writeError(w, http.StatusInternalServerError, "storage_error", "could not load spots", err.Error())
		return
	}
	pool = filterSelected(pool, req.SelectedSpots)
	if len(pool) == 0 {
		writeError(w, http.StatusBadRequest, "no_spots", "no matching spots",
			"selected_spots matched none of the city's spots")
		return
	}

	cfg := scoreConfigFor(mode, req.Config)
	began := time.Now()
	res, err := opt.Plan(req.City, pool, opt.PlanOptions{
		Days:   req.Days,
		Trials: req.Trials,
		Mode:   mode,
		Config: cfg,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "planning failed", err.Error())
		return
	}
	metrics.PlanDuration.WithLabelValues(modeLabel(mode)).Observe(time.Since(began).Seconds())
	metrics.PlanScore.WithLabelValues(req.City).Set(res.Score)
	opt.RecordMetrics(req.City, modeLabel(mode), res.Metrics)

	resp = model.PlanResponse{Score: res.Score, Reasons: res.Reasons, Itinerary: *res.Itinerary}
	if cacheable {
		s.Cache.Set(ctx, key, resp, cache.PlanTTL)
	}
	if !start.IsZero() {
		resp.WeatherAdvice = opt.Advice(res.Itinerary, start)
	}
	writeSuccess(w, http.StatusOK, "itinerary generated", resp)
}

// loadCitySpots reads a city's spot list through the cache.
func (s *Server) loadCitySpots(ctx context.Context, city string) ([]model.Spot, error) {
	key := cache.SpotsKey(city)
	var list []model.Spot
	if s.Cache.Get(ctx, key, &list) {
		metrics.CacheHits.WithLabelValues("spots").Inc()
		return list, nil
	}
	metrics.CacheMisses.WithLabelValues("spots").Inc()
	list, err := spots.Load(s.DataDir, city)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, key, list, cache.SpotsTTL)
	return list, nil
}

// CitiesHandler handles GET /v1/cities.
func (s *Server) CitiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	var cities []string
	if s.Cache.Get(ctx, cache.CitiesKey(), &cities) {
		metrics.CacheHits.WithLabelValues("cities").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("cities").Inc()
		var err error
		cities, err = spots.Cities(s.DataDir)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage_error", "could not list cities", err.Error())
			return
		}
		s.Cache.Set(ctx, cache.CitiesKey(), cities, cache.CitiesTTL)
	}
	writeSuccess(w, http.StatusOK, "available cities", map[string]any{"cities": cities, "count": len(cities)})
}

// CitySpotsHandler handles GET /v1/cities/{city}/spots.
func (s *Server) CitySpotsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/cities/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "spots" {
		writeError(w, http.StatusNotFound, "not_found", "unknown path", r.URL.Path)
		return
	}
	city := strings.ToLower(parts[0])
	list, err := s.loadCitySpots(r.Context(), city)
	if err != nil {
		if errors.Is(err, spots.ErrCityNotFound) {
			writeError(w, http.StatusNotFound, "city_not_found", "unknown city", city)
			return
		}
		writeError(w, http.StatusInternalServerError, "storage_error", "could not load spots", err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, "city spots", map[string]any{"city": city, "spots": list, "count": len(list)})
}

// ItinerariesHandler handles POST (save/share) and GET (recent) /v1/itineraries.
func (s *Server) ItinerariesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req model.SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body", err.Error())
			return
		}
		if req.Itinerary == nil || req.Itinerary.City == "" || len(req.Itinerary.Days) == 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid itinerary",
				"itinerary with city and at least one day is required")
			return
		}
		ttlDays := req.TTLDays
		if ttlDays <= 0 {
			ttlDays = 30
		}
		if ttlDays > 365 {
			ttlDays = 365
		}
		payload, err := json.Marshal(req.Itinerary)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage_error", "could not encode itinerary", err.Error())
			return
		}
		rec := store.Record{
			ShareID:   store.NewShareID(payload),
			Itinerary: *req.Itinerary,
			CreatedAt: time.Now().UTC(),
			Version:   "1.0",
		}
		ttl := time.Duration(ttlDays) * 24 * time.Hour
		if req.Persistent {
			ttl = 0
		}
		if err := s.Store.SaveItinerary(r.Context(), rec, ttl); err != nil {
			writeError(w, http.StatusInternalServerError, "storage_error", "could not save itinerary", err.Error())
			return
		}
		resp := model.SaveResponse{
			ShareID:   rec.ShareID,
			ShareURL:  s.BaseURL + "/v1/itineraries/" + rec.ShareID,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		}
		if !req.Persistent {
			resp.ExpiresAt = rec.CreatedAt.Add(ttl).Format(time.RFC3339)
			resp.ExpiresInDays = ttlDays
		}
		writeSuccess(w, http.StatusCreated, "itinerary saved", resp)
	case http.MethodGet:
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		items, err := s.Store.ListRecent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "storage_error", "could not list itineraries", err.Error())
			return
		}
		writeSuccess(w, http.StatusOK, "recent itineraries", map[string]any{"items": items, "count": len(items)})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ItineraryByIDHandler handles GET/DELETE /v1/itineraries/{shareId}.
func (s *Server) ItineraryByIDHandler(w http.ResponseWriter, r *http.Request) {
	shareID := strings.TrimPrefix(r.URL.Path, "/v1/itineraries/")
	if shareID == "" || strings.Contains(shareID, "/") {
		writeError(w, http.StatusNotFound, "not_found", "unknown path", r.URL.Path)
		return
	}
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		var rec store.Record
		if s.Cache.Get(ctx, cache.ItineraryKey(shareID), &rec) {
			metrics.CacheHits.WithLabelValues("itinerary").Inc()
			writeSuccess(w, http.StatusOK, "shared itinerary", rec)
			return
		}
		metrics.CacheMisses.WithLabelValues("itinerary").Inc()
		rec, err := s.Store.GetItinerary(ctx, shareID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "itinerary not found", shareID)
				return
			}
			writeError(w, http.StatusInternalServerError, "storage_error", "could not load itinerary", err.Error())
			return
		}
		ttl := cache.PlanTTL
		if rec.ExpiresAt != nil {
			if left := time.Until(*rec.ExpiresAt); left < ttl {
				ttl = left
			}
		}
		if ttl > 0 {
			s.Cache.Set(ctx, cache.ItineraryKey(shareID), rec, ttl)
		}
		writeSuccess(w, http.StatusOK, "shared itinerary", rec)
	case http.MethodDelete:
		if err := s.Store.DeleteItinerary(ctx, shareID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "itinerary not found", shareID)
				return
			}
			writeError(w, http.StatusInternalServerError, "storage_error", "could not delete itinerary", err.Error())
			return
		}
		s.Cache.Delete(ctx, cache.ItineraryKey(shareID))
		writeSuccess(w, http.StatusOK, "itinerary deleted", map[string]string{"share_id": shareID})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// PlanMetricsHandler handles GET /v1/admin/plan-metrics?city=.
func (s *Server) PlanMetricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	city := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("city")))
	if city == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "city query parameter is required", "")
		return
	}
	writeSuccess(w, http.StatusOK, "plan metrics", map[string]any{"city": city, "runs": opt.MetricsFor(city)})
}

// CacheStatsHandler handles GET /v1/admin/cache/stats.
func (s *Server) CacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeSuccess(w, http.StatusOK, "cache stats", s.Cache.Stats(r.Context()))
}

// CachePurgeHandler handles POST /v1/admin/cache/purge. Body {prefix} is
// optional and defaults to the plan entries.
func (s *Server) CachePurgeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Prefix string `json:"prefix"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Prefix == "" {
		req.Prefix = "plan:"
	}
	n := s.Cache.DeleteByPrefix(r.Context(), req.Prefix)
	writeSuccess(w, http.StatusOK, "cache purged", map[string]any{"prefix": req.Prefix, "purged": n})
}

// HealthHandler handles GET /healthz.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler handles GET /readyz: ready once the store answers.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
