package opt

import (
	"fmt"

	"tripagent/internal/model"
)

// ScoreConfig is threaded explicitly into every Score call; there is no
// package-level default a caller cannot override. When Mode is set the
// time-budget variant applies (MaxDailyMinutes/ExceedMinutePenalty), otherwise
// the distance-budget variant (MaxDailyKm/ExceedKmPenalty).
type ScoreConfig struct {
	MaxDailyKm      float64
	ExceedKmPenalty float64

	Mode                model.TransportMode
	MaxDailyMinutes     map[model.TransportMode]float64
	ExceedMinutePenalty float64

	OneSpotDayPenalty float64
	MinSpotsPerDay    int
}

// DefaultScoreConfig is the distance-budget profile.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		MaxDailyKm:        6.0,
		ExceedKmPenalty:   25.0,
		OneSpotDayPenalty: 15.0,
		MinSpotsPerDay:    2,
	}
}

// TimeScoreConfig is the mode-aware time-budget profile.
func TimeScoreConfig(mode model.TransportMode) ScoreConfig {
	return ScoreConfig{
		Mode: mode,
		MaxDailyMinutes: map[model.TransportMode]float64{
			model.Walk:    240,
			model.Transit: 300,
			model.Taxi:    360,
		},
		ExceedMinutePenalty: 1.5,
		OneSpotDayPenalty:   15.0,
		MinSpotsPerDay:      2,
	}
}

// Score computes the fitness of an itinerary. Lower is better; this is a
// cost, not a reward. Each day's raw route length (km, or minutes under a
// mode) accumulates into the score; exceeding the daily budget adds
// excess*penalty plus a reason, and a day below MinSpotsPerDay adds a flat
// penalty when the aggregate spot count would let every day meet the minimum.
// The only mutation is refreshing each day's TotalDistanceKm.
func Score(it *model.Itinerary, cfg ScoreConfig) (float64, []string) {
	var reasons []string

	totalSpots := it.SpotCount()
	expectMin := totalSpots >= len(it.Days)*cfg.MinSpotsPerDay

	score := 0.0
	for i := range it.Days {
		day := &it.Days[i]
		dayKm := RouteKm(day.Spots)
		day.TotalDistanceKm = round2(dayKm)

		if cfg.Mode != "" {
			dayMin := RouteMinutes(day.Spots, cfg.Mode)
			score += dayMin
			if limit := cfg.MaxDailyMinutes[cfg.Mode]; dayMin > limit {
				exceed := dayMin - limit
				penalty := exceed * cfg.ExceedMinutePenalty
				score += penalty
				reasons = append(reasons, fmt.Sprintf(
					"Day %d: exceeded %.0fmin by %.1fmin (+%.2f)", day.Day, limit, exceed, penalty))
			}
		} else {
			score += dayKm
			if dayKm > cfg.MaxDailyKm {
				exceed := dayKm - cfg.MaxDailyKm
				penalty := exceed * cfg.ExceedKmPenalty
				score += penalty
				reasons = append(reasons, fmt.Sprintf(
					"Day %d: exceeded %.1fkm by %.2fkm (+%.2f)", day.Day, cfg.MaxDailyKm, exceed, penalty))
			}
		}

		if expectMin && len(day.Spots) < cfg.MinSpotsPerDay {
			score += cfg.OneSpotDayPenalty
			reasons = append(reasons, fmt.Sprintf(
				"Day %d: only %d spot(s) (+%.2f)", day.Day, len(day.Spots), cfg.OneSpotDayPenalty))
		}
	}
	return score, reasons
}
