package opt

import (
	"strings"
	"testing"
	"time"

	"tripagent/internal/model"
)

func TestAdviceFlagsMostlyOutdoorDays(t *testing.T) {
	it := &model.Itinerary{City: "x", Days: []model.DayPlan{
		{Day: 1, Spots: []model.Spot{catSpot("park1", "park"), catSpot("beach1", "beach"), catSpot("food1", "food")}},
		{Day: 2, Spots: []model.Spot{catSpot("museum1", "museum"), catSpot("park2", "park")}},
		{Day: 3, Spots: nil},
	}}
	start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	got := Advice(it, start)
	if len(got) != 1 {
		t.Fatalf("advice = %v, want one entry", got)
	}
	if !strings.HasPrefix(got[0], "Day 1 (2026-04-10)") {
		t.Fatalf("advice should carry the calendar date: %q", got[0])
	}
	// day 2 is an even split, not "mostly outdoor"; day 3 is empty
}

func TestAdviceDateOffset(t *testing.T) {
	it := &model.Itinerary{City: "x", Days: []model.DayPlan{
		{Day: 1, Spots: []model.Spot{catSpot("food1", "food")}},
		{Day: 2, Spots: []model.Spot{catSpot("park1", "park")}},
	}}
	start := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	got := Advice(it, start)
	if len(got) != 1 || !strings.Contains(got[0], "2027-01-01") {
		t.Fatalf("day 2 should map to the following date: %v", got)
	}
}
