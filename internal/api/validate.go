package api

import (
	"fmt"
	"strings"

	"tripagent/internal/model"
	"tripagent/internal/opt"
)

const maxTrials = 5000

// normalizePlanRequest applies defaults in place and returns the parsed
// transport mode (zero value when no preference was given).
func normalizePlanRequest(req *model.PlanRequest) (model.TransportMode, error) {
	req.City = strings.ToLower(strings.TrimSpace(req.City))
	if req.City == "" {
		return "", fmt.Errorf("city is required")
	}
	if req.Days == 0 {
		req.Days = 3
	}
	if req.Days < 1 {
		return "", fmt.Errorf("days must be >= 1, got %d", req.Days)
	}
	if req.Trials < 0 {
		return "", fmt.Errorf("trials must be >= 0, got %d", req.Trials)
	}
	if req.Trials == 0 {
		req.Trials = opt.DefaultTrials
	}
	if req.Trials > maxTrials {
		req.Trials = maxTrials
	}
	var mode model.TransportMode
	if req.Preference != "" {
		m, err := model.ParseTransportMode(req.Preference)
		if err != nil {
			return "", err
		}
		mode = m
	}
	return mode, nil
}

// scoreConfigFor picks the base config for the mode and merges any per-field
// overrides from the request.
func scoreConfigFor(mode model.TransportMode, in *model.ScoreConfigIn) opt.ScoreConfig {
	var cfg opt.ScoreConfig
	if mode != "" {
		cfg = opt.TimeScoreConfig(mode)
	} else {
		cfg = opt.DefaultScoreConfig()
	}
	if in == nil {
		return cfg
	}
	if in.MaxDailyKm != nil {
		cfg.MaxDailyKm = *in.MaxDailyKm
	}
	if in.ExceedKmPenalty != nil {
		cfg.ExceedKmPenalty = *in.ExceedKmPenalty
	}
	if in.ExceedMinutePenalty != nil {
		cfg.ExceedMinutePenalty = *in.ExceedMinutePenalty
	}
	if in.OneSpotDayPenalty != nil {
		cfg.OneSpotDayPenalty = *in.OneSpotDayPenalty
	}
	if in.MinSpotsPerDay != nil {
		cfg.MinSpotsPerDay = *in.MinSpotsPerDay
	}
	return cfg
}

// filterSelected keeps only spots whose name matches the selection
// (case-insensitive). An empty selection keeps everything.
func filterSelected(spots []model.Spot, selected []string) []model.Spot {
	if len(selected) == 0 {
		return spots
	}
	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[strings.ToLower(strings.TrimSpace(name))] = true
	}
	out := make([]model.Spot, 0, len(selected))
	for _, s := range spots {
		if want[strings.ToLower(s.Name)] {
			out = append(out, s)
		}
	}
	return out
}
