package api

import (
	"testing"

	"tripagent/internal/model"
	"tripagent/internal/opt"
)

func TestNormalizePlanRequestDefaults(t *testing.T) {
	req := model.PlanRequest{City: "  Tokyo "}
	mode, err := normalizePlanRequest(&req)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if mode != "" {
		t.Fatalf("mode = %q, want empty", mode)
	}
	if req.City != "tokyo" {
		t.Fatalf("city = %q", req.City)
	}
	if req.Days != 3 {
		t.Fatalf("days = %d, want 3", req.Days)
	}
	if req.Trials != opt.DefaultTrials {
		t.Fatalf("trials = %d, want %d", req.Trials, opt.DefaultTrials)
	}
}

func TestNormalizePlanRequestTrialsCap(t *testing.T) {
	req := model.PlanRequest{City: "tokyo", Trials: 99999}
	if _, err := normalizePlanRequest(&req); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if req.Trials != maxTrials {
		t.Fatalf("trials = %d, want cap %d", req.Trials, maxTrials)
	}
}

func TestNormalizePlanRequestErrors(t *testing.T) {
	cases := []model.PlanRequest{
		{},                                     // missing city
		{City: "tokyo", Days: -1},              // bad days
		{City: "tokyo", Trials: -5},            // bad trials
		{City: "tokyo", Preference: "bicycle"}, // bad preference
	}
	for i, req := range cases {
		if _, err := normalizePlanRequest(&req); err == nil {
			t.Fatalf("case %d: expected error, got none", i)
		}
	}
}

func TestNormalizePlanRequestMode(t *testing.T) {
	req := model.PlanRequest{City: "tokyo", Preference: "transit"}
	mode, err := normalizePlanRequest(&req)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if mode != model.Transit {
		t.Fatalf("mode = %q", mode)
	}
}

func TestScoreConfigForMerge(t *testing.T) {
	km := 10.0
	pen := 50.0
	cfg := scoreConfigFor("", &model.ScoreConfigIn{MaxDailyKm: &km, ExceedKmPenalty: &pen})
	if cfg.MaxDailyKm != 10.0 || cfg.ExceedKmPenalty != 50.0 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.OneSpotDayPenalty != 15.0 || cfg.MinSpotsPerDay != 2 {
		t.Fatalf("defaults lost: %+v", cfg)
	}

	timed := scoreConfigFor(model.Walk, nil)
	if timed.MaxDailyMinutes[model.Walk] != 240 {
		t.Fatalf("time config not selected: %+v", timed)
	}
}

func TestFilterSelected(t *testing.T) {
	pool := []model.Spot{{Name: "Sensoji"}, {Name: "Ueno Park"}, {Name: "Tokyo Tower"}}
	got := filterSelected(pool, []string{"ueno park", " SENSOJI "})
	if len(got) != 2 {
		t.Fatalf("filtered = %d spots, want 2", len(got))
	}
	if got[0].Name != "Sensoji" || got[1].Name != "Ueno Park" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if all := filterSelected(pool, nil); len(all) != 3 {
		t.Fatalf("empty selection must keep everything")
	}
}
